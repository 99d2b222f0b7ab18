/*
Package config holds the configuration of an editor.

Options are read from the environment. A .env file in the working
directory is loaded first, if present; variables already set in the
environment take precedence over the file.

	WYSIWYG_BUTTONS              comma separated actions, e.g. "bold,italic,link"
	WYSIWYG_AUTOSAVE_INTERVAL_MS autosave interval in milliseconds
	WYSIWYG_STORAGE_KEY          key to store content under
	WYSIWYG_STORE                memory | redis | postgres
	REDIS_URL                    Redis URL or address
	DB_CONNECTION_STRING         Postgres DSN
*/
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'wysiwyg.config'.
func tracer() tracing.Trace {
	return tracing.Select("wysiwyg.config")
}

// Names of stores.
const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// Defaults
const (
	DefaultAutoSaveInterval = 300000 * time.Millisecond
	DefaultStorageKey       = "wysiwyg-content"
)

// DefaultButtons are the actions offered by a toolbar, in order.
var DefaultButtons = []string{"bold", "italic", "strikeThrough", "color", "fontSize", "link"}

// Options configure an editor.
type Options struct {
	Buttons          []string      `validate:"dive,oneof=bold italic strikeThrough color fontSize link"`
	AutoSaveInterval time.Duration `validate:"gt=0"`
	StorageKey       string        `validate:"required"`
	Store            string        `validate:"oneof=memory redis postgres"`
	RedisURL         string        `validate:"required_if=Store redis"`
	DatabaseURL      string        `validate:"required_if=Store postgres"`
}

// Default returns the default options: all buttons, autosave every five
// minutes, memory store.
func Default() *Options {
	return &Options{
		Buttons:          append([]string(nil), DefaultButtons...),
		AutoSaveInterval: DefaultAutoSaveInterval,
		StorageKey:       DefaultStorageKey,
		Store:            StoreMemory,
	}
}

var validate = validator.New()

// Validate checks the options.
func (o *Options) Validate() error {
	if err := validate.Struct(o); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Load reads options from the environment, starting from the defaults.
// The result is validated.
func Load() (*Options, error) {
	if err := godotenv.Load(); err != nil {
		tracer().Debugf("no .env file loaded, using environment only")
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv reads options using a lookup function like os.LookupEnv.
func FromEnv(lookup func(string) (string, bool)) (*Options, error) {
	o := Default()
	if v, ok := lookup("WYSIWYG_BUTTONS"); ok {
		o.Buttons = o.Buttons[:0]
		for _, b := range strings.Split(v, ",") {
			if b = strings.TrimSpace(b); b != "" {
				o.Buttons = append(o.Buttons, b)
			}
		}
	}
	if v, ok := lookup("WYSIWYG_AUTOSAVE_INTERVAL_MS"); ok {
		ms, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid configuration: WYSIWYG_AUTOSAVE_INTERVAL_MS: %w", err)
		}
		o.AutoSaveInterval = time.Duration(ms) * time.Millisecond
	}
	if v, ok := lookup("WYSIWYG_STORAGE_KEY"); ok {
		o.StorageKey = v
	}
	if v, ok := lookup("WYSIWYG_STORE"); ok {
		o.Store = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := lookup("REDIS_URL"); ok {
		o.RedisURL = v
	}
	if v, ok := lookup("DB_CONNECTION_STRING"); ok {
		o.DatabaseURL = v
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	tracer().Debugf("configuration: store=%s key=%q autosave=%v buttons=%v",
		o.Store, o.StorageKey, o.AutoSaveInterval, o.Buttons)
	return o, nil
}
