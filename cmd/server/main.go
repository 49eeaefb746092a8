package main

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	zerologlog "github.com/rs/zerolog/log"
	"github.com/skip2/go-qrcode"
	"github.com/spf13/cobra"

	"github.com/quackhq/quackbox/internal/abducktion"
	"github.com/quackhq/quackbox/internal/config"
	"github.com/quackhq/quackbox/internal/game"
	"github.com/quackhq/quackbox/internal/images"
	"github.com/quackhq/quackbox/internal/ws"
)

const version = "0.2.0"

func main() {
	cfg := &config.Config{}

	cmd := &cobra.Command{
		Use:     "quackbox",
		Short:   "Real-time party game server: caption contests and duck-flavored puzzle races.",
		Args:    cobra.ExactArgs(0),
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cfg)
		},
	}
	cfg.RegisterFlags(cmd.Flags())
	cmd.SetVersionTemplate("quackbox v{{.Version}}\n")
	cmd.SilenceUsage = true

	cobra.CheckErr(cmd.Execute())
}

func run(cfg *config.Config) error {
	zerolog.TimeFieldFormat = time.RFC3339
	cw := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	zerologlog.Logger = zerologlog.Output(cw)
	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/socket.io") {
			return
		}
		zerologlog.Info().
			Str("path", path).
			Int("status", c.Writer.Status()).
			Dur("dur", time.Since(start)).
			Msg("http")
	})
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		MaxAge:           12 * time.Hour,
		AllowCredentials: false,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "time": time.Now().UTC()})
	})

	captions := game.NewRegistry(game.NewMemoryStore(), images.NewPicsum())
	ducks := abducktion.NewRegistry()

	sock := ws.New(captions, ducks, *cfg)
	io := sock.Mount(r)
	defer io.Close()

	// PNG QR code for a room's join link, for the host screen to put up.
	r.GET("/api/rooms/:code/qr", func(c *gin.Context) {
		code := strings.ToUpper(c.Param("code"))
		if !captions.Has(code) && !ducks.Has(code) {
			c.Status(http.StatusNotFound)
			return
		}

		base := cfg.PublicURL
		if base == "" {
			scheme := "http"
			if c.Request.TLS != nil {
				scheme = "https"
			}
			if proto := c.Request.Header.Get("X-Forwarded-Proto"); proto != "" {
				scheme = proto
			}
			base = scheme + "://" + c.Request.Host
		}

		const qrSize = 320 // mobile-friendly size
		png, err := qrcode.Encode(base+"/join/"+code, qrcode.Medium, qrSize)
		if err != nil {
			c.String(http.StatusInternalServerError, "qr generation failed")
			return
		}
		c.Data(http.StatusOK, "image/png", png)
	})

	zerologlog.Info().Str("addr", cfg.Addr()).Str("version", version).Msg("listening")
	return r.Run(cfg.Addr())
}
