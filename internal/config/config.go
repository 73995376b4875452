package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/KirkDiggler/zombeers/internal/handlers/httpapi"
	"github.com/KirkDiggler/zombeers/internal/handlers/ws"
	sessionrepo "github.com/KirkDiggler/zombeers/internal/repositories/session"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to the upper-cased flag name to form its
// environment variable
const EnvPrefix = "ZOMBEERS"

const (
	// BackendFile stores the local session as a JSON file
	BackendFile = "file"

	// BackendRedis stores the local session in redis
	BackendRedis = "redis"
)

// Config holds the runtime configuration of the zombeers binary
type Config struct {
	// ConfigFile is an optional YAML, TOML or JSON file of flag values
	ConfigFile string

	// Verbose switches to a development logger
	Verbose bool

	// Bind is the address the server listens on
	Bind string

	// Port is the port the server listens on
	Port int

	// PublicURL is the base of room join links
	PublicURL string

	// StaticDir is served under / when set
	StaticDir string

	// SendBuffer is the number of frames queued per websocket client
	SendBuffer int

	// QRSize is the edge length of room QR codes
	QRSize int

	// ShutdownTimeout bounds graceful shutdown
	ShutdownTimeout time.Duration

	// SessionBackend is BackendFile or BackendRedis
	SessionBackend string

	// SessionDir holds the snapshot file of the file backend
	SessionDir string

	// SessionKey names the stored local session
	SessionKey string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Validate reports the first invalid setting
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.Port)
	}

	if c.SendBuffer < 1 {
		return fmt.Errorf("invalid send buffer (must be positive): %d", c.SendBuffer)
	}

	if c.ShutdownTimeout < 0 {
		return fmt.Errorf("invalid shutdown timeout: %s", c.ShutdownTimeout)
	}

	if strings.TrimSpace(c.SessionKey) == "" {
		return errors.New("session key cannot be empty")
	}

	switch c.SessionBackend {
	case BackendFile:
		if c.SessionDir == "" {
			return errors.New("--session-dir is required for the file backend")
		}
	case BackendRedis:
		if c.RedisAddr == "" {
			return errors.New("--redis-addr is required for the redis backend")
		}
		if c.RedisDB < 0 {
			return fmt.Errorf("invalid redis db: %d", c.RedisDB)
		}
	default:
		return fmt.Errorf("unknown session backend %q (must be %s or %s)", c.SessionBackend, BackendFile, BackendRedis)
	}

	return nil
}

// Addr is the listen address of the server
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Bind, strconv.Itoa(c.Port))
}

// RegisterGlobalFlags adds the flags shared by every subcommand
func RegisterGlobalFlags(fs *pflag.FlagSet, cfg *Config) {
	normalize(fs)

	fs.StringVarP(&cfg.ConfigFile, "config", "c", "", "path to a config file (env: ZOMBEERS_CONFIG)")
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", false, "display additional output (env: ZOMBEERS_VERBOSE)")
	fs.StringVar(&cfg.SessionBackend, "session-backend", BackendFile, "local session storage, file or redis (env: ZOMBEERS_SESSION_BACKEND)")
	fs.StringVar(&cfg.SessionDir, "session-dir", ".zombeers", "directory of the local session file (env: ZOMBEERS_SESSION_DIR)")
	fs.StringVar(&cfg.SessionKey, "session-key", sessionrepo.DefaultKey, "name of the stored local session (env: ZOMBEERS_SESSION_KEY)")
	fs.StringVar(&cfg.RedisAddr, "redis-addr", "localhost:6379", "redis address (env: ZOMBEERS_REDIS_ADDR)")
	fs.StringVar(&cfg.RedisPassword, "redis-password", "", "redis password (env: ZOMBEERS_REDIS_PASSWORD)")
	fs.IntVar(&cfg.RedisDB, "redis-db", 0, "redis database (env: ZOMBEERS_REDIS_DB)")
}

// RegisterServeFlags adds the flags of the relay server
func RegisterServeFlags(fs *pflag.FlagSet, cfg *Config) {
	normalize(fs)

	fs.StringVarP(&cfg.Bind, "bind", "b", "0.0.0.0", "address to bind to (env: ZOMBEERS_BIND)")
	fs.IntVarP(&cfg.Port, "port", "p", 8080, "port to listen on (env: ZOMBEERS_PORT)")
	fs.StringVar(&cfg.PublicURL, "public-url", "", "base URL of room join links, derived from the request when empty (env: ZOMBEERS_PUBLIC_URL)")
	fs.StringVar(&cfg.StaticDir, "static-dir", "", "directory of static client files served under / (env: ZOMBEERS_STATIC_DIR)")
	fs.IntVar(&cfg.SendBuffer, "send-buffer", ws.DefaultSendBuffer, "frames queued per websocket client before it is dropped (env: ZOMBEERS_SEND_BUFFER)")
	fs.IntVar(&cfg.QRSize, "qr-size", httpapi.DefaultQRSize, "edge length of room QR codes in pixels (env: ZOMBEERS_QR_SIZE)")
	fs.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", 10*time.Second, "time allowed for graceful shutdown (env: ZOMBEERS_SHUTDOWN_TIMEOUT)")
}

// Defaults returns a config holding every flag default
func Defaults() *Config {
	cfg := &Config{}
	fs := pflag.NewFlagSet("defaults", pflag.ContinueOnError)
	RegisterGlobalFlags(fs, cfg)
	RegisterServeFlags(fs, cfg)
	return cfg
}

// Resolve fills flags that were not given on the command line from the
// environment and then from the config file. Command line values win over
// the environment, which wins over the file.
func Resolve(cfg *Config, flagSets ...*pflag.FlagSet) error {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := apply(v, flagSets); err != nil {
		return err
	}

	if cfg.ConfigFile == "" {
		return nil
	}

	v.SetConfigFile(cfg.ConfigFile)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	return apply(v, flagSets)
}

func apply(v *viper.Viper, flagSets []*pflag.FlagSet) error {
	var errs []error

	for _, fs := range flagSets {
		fs.VisitAll(func(f *pflag.Flag) {
			_ = v.BindPFlag(f.Name, f)
			_ = v.BindEnv(f.Name)
			if !f.Changed && v.IsSet(f.Name) {
				if err := fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name))); err != nil {
					errs = append(errs, fmt.Errorf("invalid value for %s: %w", f.Name, err))
				}
			}
		})
	}

	return errors.Join(errs...)
}

func normalize(fs *pflag.FlagSet) {
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})
}
