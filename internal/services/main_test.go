package services

import (
	"os"
	"testing"

	pkgauth "github.com/BradenHooton/complaintbox/pkg/auth"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	pkgauth.BcryptCost = bcrypt.MinCost
	os.Exit(m.Run())
}
