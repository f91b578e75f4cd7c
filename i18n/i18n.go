package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

//go:embed locales/*.json
var localesFS embed.FS

// LangEnv escolhe o idioma da interface. Sem ele a interface fica em inglês,
// qualquer que seja o locale do sistema.
const LangEnv = "GEMINIAPP_LANG"

var (
	defaultLang = language.English

	loadOnce   sync.Once
	cat        *catalog.Builder
	supported  []language.Tag
	catalogErr error

	printer *message.Printer
)

// loadCatalog lê os JSON embutidos uma única vez. en.json é obrigatório.
func loadCatalog() (*catalog.Builder, []language.Tag, error) {
	loadOnce.Do(func() {
		cat = catalog.NewBuilder(catalog.Fallback(defaultLang))
		supported = []language.Tag{defaultLang}

		entries, err := localesFS.ReadDir("locales")
		if err != nil {
			catalogErr = err
			return
		}
		for _, e := range entries {
			tag, err := language.Parse(strings.TrimSuffix(e.Name(), ".json"))
			if err != nil || path.Ext(e.Name()) != ".json" {
				continue
			}
			data, err := localesFS.ReadFile("locales/" + e.Name())
			if err != nil {
				catalogErr = err
				return
			}
			var strs map[string]string
			if err := json.Unmarshal(data, &strs); err != nil {
				catalogErr = fmt.Errorf("locale %s: %w", e.Name(), err)
				return
			}
			for key, msg := range strs {
				if err := cat.SetString(tag, key, msg); err != nil {
					catalogErr = fmt.Errorf("locale %s, key %s: %w", e.Name(), key, err)
					return
				}
			}
			if tag != defaultLang {
				supported = append(supported, tag)
			}
		}
	})
	return cat, supported, catalogErr
}

// detectLanguage lê apenas LangEnv e normaliza valores como "pt_BR.UTF-8" para "pt-BR".
func detectLanguage(getenv func(string) string) string {
	v := strings.TrimSpace(getenv(LangEnv))
	if idx := strings.IndexAny(v, ".@"); idx != -1 {
		v = v[:idx]
	}
	return strings.ReplaceAll(v, "_", "-")
}

// Match devolve o idioma suportado mais próximo de lang; inglês quando não há nenhum.
func Match(lang string) language.Tag {
	_, tags, err := loadCatalog()
	if err != nil {
		return defaultLang
	}
	want, err := language.Parse(lang)
	if err != nil {
		return defaultLang
	}
	_, idx, conf := language.NewMatcher(tags).Match(want)
	if conf == language.No {
		return defaultLang
	}
	return tags[idx]
}

// Init escolhe o idioma pelo ambiente e prepara T.
func Init() {
	b, _, err := loadCatalog()
	if err != nil {
		fmt.Fprintf(os.Stderr, "aviso i18n: %v\n", err)
		printer = message.NewPrinter(defaultLang)
		return
	}
	printer = message.NewPrinter(Match(detectLanguage(os.Getenv)), message.Catalog(b))
}

// T retorna a string traduzida para a chave, formatada com args.
// Antes de Init, devolve a própria chave.
func T(key string, args ...interface{}) string {
	if printer == nil {
		if len(args) > 0 {
			return key + " " + fmt.Sprint(args...)
		}
		return key
	}
	return printer.Sprintf(key, args...)
}
