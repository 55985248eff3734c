package config

import (
	"os"

	"github.com/spf13/viper"
)

// mergeEnvFiles merges KEY=VALUE files into v as config values, which rank
// below real environment variables. Missing or malformed files are skipped.
func mergeEnvFiles(v *viper.Viper, paths ...string) {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		v.SetConfigFile(path)
		v.SetConfigType("env")
		_ = v.MergeInConfig()
	}
}
