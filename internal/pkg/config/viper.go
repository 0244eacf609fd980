package config

import (
	"bytes"
	"encoding/base64"
	"errors"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. PAYDOTA_MESSAGING_DRIVER.
const EnvPrefix = "PAYDOTA"

// ErrConfigTypeRequired is returned by NewViperFromBytes without a format.
var ErrConfigTypeRequired = errors.New("config type is required")

// Viper is a Config implementation backed by github.com/spf13/viper.
type Viper struct {
	v *viper.Viper
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// NewViper loads configuration from pathFile and reloads it when the file
// changes on disk. Environment variables with EnvPrefix take precedence over
// file values.
func NewViper(pathFile string) (*Viper, error) {
	v := newViper()

	base := path.Base(pathFile)
	v.AddConfigPath(path.Dir(pathFile))
	v.SetConfigName(strings.TrimSuffix(base, path.Ext(base)))

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		slog.Info("config file changed", "path", pathFile, "op", e.Op.String())
	})
	v.WatchConfig()

	return &Viper{v: v}, nil
}

// NewViperFromBytes loads configuration from memory. configType is a format
// viper understands ("yaml", "json", "toml").
func NewViperFromBytes(configType string, data []byte) (*Viper, error) {
	if strings.TrimSpace(configType) == "" {
		return nil, ErrConfigTypeRequired
	}

	v := newViper()
	v.SetConfigType(configType)
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, err
	}

	return &Viper{v: v}, nil
}

func (vc *Viper) GetBool(key string) bool { return vc.v.GetBool(key) }
func (vc *Viper) GetString(key string) string { return vc.v.GetString(key) }
func (vc *Viper) GetInt(key string) int { return vc.v.GetInt(key) }
func (vc *Viper) GetInt32(key string) int32 { return vc.v.GetInt32(key) }
func (vc *Viper) GetUint16(key string) uint16 { return uint16(vc.v.GetUint(key)) }
func (vc *Viper) GetFloat64(key string) float64 { return vc.v.GetFloat64(key) }

// GetSecond returns the value for key as seconds.
func (vc *Viper) GetSecond(key string) time.Duration {
	return time.Duration(vc.v.GetInt64(key)) * time.Second
}

// GetMinute returns the value for key as minutes.
func (vc *Viper) GetMinute(key string) time.Duration {
	return time.Duration(vc.v.GetInt64(key)) * time.Minute
}

// GetBinary returns the value for key decoded from base64.
func (vc *Viper) GetBinary(key string) []byte {
	raw := strings.TrimSpace(vc.v.GetString(key))
	if raw == "" {
		return nil
	}

	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil
	}
	return data
}

// GetArray returns the value for key as a list of non-empty strings.
func (vc *Viper) GetArray(key string) []string {
	raw := vc.v.Get(key)
	if raw == nil {
		return nil
	}

	var items []string
	if _, isString := raw.(string); isString {
		items = strings.Split(vc.v.GetString(key), ",")
	} else {
		items = vc.v.GetStringSlice(key)
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Close implements io.Closer; viper holds nothing that needs releasing.
func (vc *Viper) Close() error {
	return nil
}
