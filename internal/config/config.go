// Package config contains utilities for loading configs.
package config

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

const (
	configFilePath     = "/data/foodgram.yaml"
	appSecretBytes     = 32
	appSecretFilePerms = 0o600
)

const (
	EnvProd = "PROD"
	EnvDev  = "DEV"
)

// Filestore backends.
const (
	StoreLocal = "local"
	StoreS3    = "s3"
)

type AppSecretValue string

func (a *AppSecretValue) Validate() error {
	if a == nil {
		return errors.New("secret should not be nil")
	}
	if len([]byte(*a)) < appSecretBytes {
		return errors.New("secret should be at least 32 bytes")
	}
	return nil
}

type AppSecret struct {
	Value   *AppSecretValue `yaml:"value" validate:"omitempty,validateFn"`
	Path    string          `yaml:"path" validate:"omitempty,filepath"`
	Version string          `yaml:"version"`
}

type Database struct {
	Port     uint16 `yaml:"port"`
	Host     string `yaml:"host" validate:"omitempty,hostname_rfc1123"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`

	Validate struct{} `yaml:"-" validate:"allOrNothing=Port Host Database User Password"`
}

type S3 struct {
	Endpoint  string `yaml:"endpoint"`
	Bucket    string `yaml:"bucket"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	UseSSL    bool   `yaml:"use_ssl"`

	Validate struct{} `yaml:"-" validate:"allOrNothing=Endpoint Bucket AccessKey SecretKey"`
}

type Filestore struct {
	Backend   string `yaml:"backend" validate:"omitempty,oneof=local s3"`
	Volume    string `yaml:"volume"`
	URLPrefix string `yaml:"url_prefix"`
	S3        S3     `yaml:"s3"`
}

type Config struct {
	AppSecret  AppSecret `yaml:"app_secret"`
	Filestore  Filestore `yaml:"filestore"`
	Database   Database  `yaml:"database"`
	HostOrigin string    `yaml:"host_origin" validate:"url"`
	Env        string    `yaml:"env" validate:"omitempty,oneof=DEV PROD"`
}

func splitFieldList(param string) []string {
	// "A,B,C" or "A B C"
	param = strings.ReplaceAll(param, " ", ",")
	parts := strings.Split(param, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// allOrNothing enforces that the listed sibling fields are either all zero
// or all non-zero. Attached to a placeholder field; inspects the parent
// struct. See the Database and S3 config groups.
func allOrNothing(fl validator.FieldLevel) bool {
	parent := fl.Parent()
	if parent.Kind() == reflect.Pointer {
		if parent.IsNil() {
			return true // nothing to validate
		}
		parent = parent.Elem()
	}
	if parent.Kind() != reflect.Struct {
		return false
	}

	names := splitFieldList(fl.Param())
	if len(names) == 0 {
		return false
	}

	hasZero := false
	hasNonZero := false

	for _, name := range names {
		f := parent.FieldByName(name)
		if !f.IsValid() {
			return false // field name typo / not found
		}

		for (f.Kind() == reflect.Pointer || f.Kind() == reflect.Interface) && !f.IsNil() {
			f = f.Elem()
		}

		if f.IsZero() {
			hasZero = true
		} else {
			hasNonZero = true
		}

		if hasZero && hasNonZero {
			return false
		}
	}

	return true
}

// validateFn delegates to the field's own Validate method.
func validateFn(fl validator.FieldLevel) bool {
	f := fl.Field()
	if v, ok := f.Interface().(interface{ Validate() error }); ok {
		return v.Validate() == nil
	}
	if f.CanAddr() {
		if v, ok := f.Addr().Interface().(interface{ Validate() error }); ok {
			return v.Validate() == nil
		}
	}
	return false
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("allOrNothing", allOrNothing)
	_ = v.RegisterValidation("validateFn", validateFn)
	return v
}

func newAppSecret() (string, error) {
	token := make([]byte, appSecretBytes)
	if _, err := rand.Reader.Read(token); err != nil {
		return "", fmt.Errorf("creating app secret: %w", err)
	}
	return base64.StdEncoding.EncodeToString(token), nil
}

func loadAppSecret(config *Config) error {
	if config.AppSecret.Value != nil {
		return nil
	}

	var secret string
	if f1, err := os.Lstat(config.AppSecret.Path); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("checking secret path: %w", err)
		}

		file, err := os.OpenFile(config.AppSecret.Path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, appSecretFilePerms)
		if err != nil {
			return fmt.Errorf("creating secret file: %w", err)
		}
		defer func() { _ = file.Close() }()

		secret, err = newAppSecret()
		if err != nil {
			return fmt.Errorf("generating new app secret: %w", err)
		}

		if _, err := file.WriteString(secret); err != nil {
			return fmt.Errorf("writing secret file: %w", err)
		}
	} else {
		if f1.IsDir() {
			return fmt.Errorf("expected file, got directory at %q", config.AppSecret.Path)
		}
		data, err := os.ReadFile(config.AppSecret.Path)
		if err != nil {
			return fmt.Errorf("reading file: %w", err)
		}
		secret = string(data)
	}
	val := AppSecretValue(secret)
	config.AppSecret.Value = &val
	return nil
}

func loadWithDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func loadConfigFromEnv() (Config, error) {
	conf := Config{
		HostOrigin: loadWithDefault("HOST_ORIGIN", "http://localhost:8080"),
		Env:        loadWithDefault("ENV", EnvDev),
	}

	// AppSecret
	conf.AppSecret = AppSecret{
		Path:    loadWithDefault("APP_SECRET_PATH", "/data/secret"),
		Version: loadWithDefault("APP_SECRET_VERSION", "1"),
	}
	if v := AppSecretValue(os.Getenv("APP_SECRET")); v != "" {
		conf.AppSecret.Value = &v
	}

	// Database
	conf.Database = Database{
		Host:     loadWithDefault("DATABASE_HOST", "localhost"),
		Database: os.Getenv("DATABASE"),
		User:     os.Getenv("DATABASE_USER"),
		Password: os.Getenv("DATABASE_PASSWORD"),
	}
	databasePort := loadWithDefault("DATABASE_PORT", "5432")
	if port, err := strconv.ParseUint(databasePort, 10, 16); err != nil {
		return conf, fmt.Errorf("invalid DATABASE_PORT (%q): %w", databasePort, err)
	} else {
		conf.Database.Port = uint16(port)
	}

	// Filestore
	conf.Filestore = Filestore{
		Backend:   loadWithDefault("FILESTORE_BACKEND", StoreLocal),
		Volume:    loadWithDefault("FILESTORE_VOLUME", "/data/files"),
		URLPrefix: loadWithDefault("FILESTORE_URL_PREFIX", "/files"),
		S3: S3{
			Endpoint:  os.Getenv("S3_ENDPOINT"),
			Bucket:    os.Getenv("S3_BUCKET"),
			AccessKey: os.Getenv("S3_ACCESS_KEY"),
			SecretKey: os.Getenv("S3_SECRET_KEY"),
		},
	}
	useSSL := loadWithDefault("S3_USE_SSL", "false")
	if b, err := strconv.ParseBool(useSSL); err != nil {
		return conf, fmt.Errorf("invalid S3_USE_SSL (%q): %w", useSSL, err)
	} else {
		conf.Filestore.S3.UseSSL = b
	}

	if err := newValidator().Struct(conf); err != nil {
		return conf, err
	}

	if err := loadAppSecret(&conf); err != nil {
		return conf, fmt.Errorf("loading app secret: %w", err)
	}

	return conf, nil
}

func loadConfigFromFile(path string) (Config, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(contents, &config); err != nil {
		return Config{}, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Set defaults
	if config.AppSecret.Path == "" {
		config.AppSecret.Path = "/data/secret"
	}
	if config.AppSecret.Version == "" {
		config.AppSecret.Version = "1"
	}
	if config.Env == "" {
		config.Env = EnvDev
	}
	if config.HostOrigin == "" {
		config.HostOrigin = "http://localhost:8080"
	}
	if config.Database.Host == "" {
		config.Database.Host = "localhost"
	}
	if config.Database.Port == 0 {
		config.Database.Port = 5432
	}
	if config.Filestore.Backend == "" {
		config.Filestore.Backend = StoreLocal
	}
	if config.Filestore.Volume == "" {
		config.Filestore.Volume = "/data/files"
	}
	if config.Filestore.URLPrefix == "" {
		config.Filestore.URLPrefix = "/files"
	}

	if err := newValidator().Struct(config); err != nil {
		return Config{}, err
	}

	if err := loadAppSecret(&config); err != nil {
		return Config{}, fmt.Errorf("loading app secret: %w", err)
	}

	return config, nil
}

func configFileExists(path string) bool {
	f, err := os.Lstat(path)
	if err != nil {
		return false
	}

	return !f.IsDir()
}

func LoadConfig() (Config, error) {
	// Local development convenience; the file is optional.
	_ = godotenv.Load()

	if configFileExists(configFilePath) {
		return loadConfigFromFile(configFilePath)
	}

	return loadConfigFromEnv()
}
