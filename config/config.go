package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	DriverBolt  = "bolt"
	DriverMongo = "mongo"
)

type Config struct {
	Development  bool
	Port         int
	Database     Database
	TestDatabase Database
}

// Database describes how to reach a document store. Path is used by the
// bolt driver, URI and Name by the mongo driver.
type Database struct {
	Driver string
	Path   string
	URI    string
	Name   string
}

// Parse parses the configuration from the config file in the working
// directory, if any, and from POSTS_ prefixed environment variables.
func Parse() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.SetEnvPrefix("posts")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("development", false)
	v.SetDefault("port", 8080)
	v.SetDefault("database.driver", DriverBolt)
	v.SetDefault("database.path", "posts.db")
	v.SetDefault("database.uri", "")
	v.SetDefault("database.name", "posts")
	v.SetDefault("testdatabase.driver", "")
	v.SetDefault("testdatabase.path", "")
	v.SetDefault("testdatabase.uri", "")
	v.SetDefault("testdatabase.name", "posts-test")

	err := v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	conf := &Config{}
	err = v.Unmarshal(conf)
	if err != nil {
		return nil, err
	}

	err = conf.validate()
	if err != nil {
		return nil, err
	}

	return conf, nil
}

func (c *Config) validate() error {
	if c.Port < 0 {
		return errors.New("port should be above zero")
	}

	err := c.Database.Validate()
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if c.TestDatabase.Driver != "" {
		err = c.TestDatabase.Validate()
		if err != nil {
			return fmt.Errorf("testDatabase: %w", err)
		}

		if c.TestDatabase.SameStore(c.Database) {
			return errors.New("testDatabase must not be the same as database")
		}
	}

	return nil
}

// SameStore reports whether d and o point at the same data. Only the fields
// used by the driver are compared.
func (d *Database) SameStore(o Database) bool {
	if d.Driver != o.Driver {
		return false
	}

	switch d.Driver {
	case DriverBolt:
		return samePath(d.Path, o.Path)
	case DriverMongo:
		return d.URI == o.URI && d.Name == o.Name
	default:
		return *d == o
	}
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

func (d *Database) Validate() error {
	switch d.Driver {
	case DriverBolt:
		if d.Path == "" {
			return errors.New("path is missing")
		}
	case DriverMongo:
		if d.URI == "" {
			return errors.New("uri is missing")
		}

		if d.Name == "" {
			return errors.New("name is missing")
		}
	default:
		return fmt.Errorf("unknown driver %q", d.Driver)
	}

	return nil
}
