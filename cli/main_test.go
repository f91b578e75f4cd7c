package cli

import (
	"os"
	"testing"

	"github.com/diillson/geminiapp/i18n"
)

func TestMain(m *testing.M) {
	os.Setenv("GEMINIAPP_LANG", "en")
	i18n.Init()
	os.Exit(m.Run())
}
