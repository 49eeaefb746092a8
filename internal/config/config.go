package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Bind           string
	Port           int
	AllowedOrigins []string
	PublicURL      string
	ExportFile     string
	Verbose        bool
}

func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.Port)
	}
	c.PublicURL = strings.TrimSuffix(c.PublicURL, "/")
	return nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Bind, c.Port)
}

// RegisterFlags declares the server flags and binds each to its
// QUACKBOX_-prefixed environment variable through viper, flags taking
// precedence over the environment.
func (c *Config) RegisterFlags(fs *pflag.FlagSet) {
	v := viper.New()
	v.SetEnvPrefix("QUACKBOX")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	fs.StringVarP(&c.Bind, "bind", "b", "0.0.0.0", "address to bind to (env: QUACKBOX_BIND)")
	fs.IntVarP(&c.Port, "port", "p", 3001, "port to listen on (env: QUACKBOX_PORT)")
	fs.StringSliceVar(&c.AllowedOrigins, "allowed-origins", []string{"*"}, "CORS origins allowed to reach the socket server (env: QUACKBOX_ALLOWED_ORIGINS)")
	fs.StringVar(&c.PublicURL, "public-url", "", "public base URL used in join QR codes; derived from the request when empty (env: QUACKBOX_PUBLIC_URL)")
	fs.StringVar(&c.ExportFile, "export-file", "", "append caption round results to this file; disabled when empty (env: QUACKBOX_EXPORT_FILE)")
	fs.BoolVarP(&c.Verbose, "verbose", "v", false, "debug-level logging (env: QUACKBOX_VERBOSE)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})
}
