package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"time"
)

var (
	// Essas variáveis serão preenchidas durante a compilação via ldflags
	Version    = "dev"
	CommitHash = "unknown"
	BuildDate  = "unknown"
)

// VersionInfo retorna informações estruturadas sobre a versão atual
type VersionInfo struct {
	Version    string `json:"version"`
	CommitHash string `json:"commit_hash"`
	BuildDate  string `json:"build_date"`
	GoVersion  string `json:"go_version"`
}

// GetCurrentVersion retorna as informações de versão, completando com o build info do módulo
func GetCurrentVersion() VersionInfo {
	v, commit, date := resolve(Version, CommitHash, BuildDate, readBuildSettings())
	return VersionInfo{
		Version:    v,
		CommitHash: commit,
		BuildDate:  date,
		GoVersion:  runtime.Version(),
	}
}

// FormatVersionInfo retorna uma string formatada com as informações de versão
func FormatVersionInfo(info VersionInfo) string {
	var result strings.Builder
	result.WriteString(fmt.Sprintf("Gemini LLM App %s\n", info.Version))
	result.WriteString(fmt.Sprintf("Commit: %s\n", info.CommitHash))
	result.WriteString(fmt.Sprintf("Build: %s\n", info.BuildDate))
	result.WriteString(fmt.Sprintf("Go: %s\n", info.GoVersion))
	return result.String()
}

// buildSettings é o subconjunto do debug.BuildInfo que interessa aqui
type buildSettings struct {
	mainVersion string
	revision    string
	vcsTime     string
}

func readBuildSettings() buildSettings {
	var bs buildSettings
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return bs
	}
	bs.mainVersion = info.Main.Version
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			bs.revision = setting.Value
		case "vcs.time":
			bs.vcsTime = setting.Value
		}
	}
	return bs
}

// resolve usa o build info apenas onde o ldflags deixou os valores padrão
func resolve(version, commit, date string, bs buildSettings) (string, string, string) {
	if version == "dev" && bs.mainVersion != "" && bs.mainVersion != "(devel)" {
		version = bs.mainVersion
	}
	if commit == "unknown" && bs.revision != "" {
		commit = bs.revision
		if len(commit) > 8 {
			commit = commit[:8] // Pegar apenas os primeiros 8 caracteres
		}
	}
	if date == "unknown" && bs.vcsTime != "" {
		// Converter para formato mais amigável
		if t, err := time.Parse(time.RFC3339, bs.vcsTime); err == nil {
			date = t.Format("2006-01-02 15:04:05")
		} else {
			date = bs.vcsTime
		}
	}
	return version, commit, date
}
