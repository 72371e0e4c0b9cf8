// internal/config/profiles.go
package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// GetProfile retrieves a profile by name
func (c *Config) GetProfile(name string) (*Profile, error) {
	for i := range c.Profiles {
		if c.Profiles[i].Name == name {
			return &c.Profiles[i], nil
		}
	}
	return nil, fmt.Errorf("profile not found: %s", name)
}

// AddProfile adds a new profile to the config and saves it
func (c *Config) AddProfile(p Profile) error {
	if p.Name == "" {
		return fmt.Errorf("profile name is required")
	}
	for _, existing := range c.Profiles {
		if existing.Name == p.Name {
			return fmt.Errorf("profile already exists: %s", p.Name)
		}
	}
	c.Profiles = append(c.Profiles, p)
	return c.Save()
}

// DeleteProfile removes a profile from the config and saves it
func (c *Config) DeleteProfile(name string) error {
	for i := range c.Profiles {
		if c.Profiles[i].Name == name {
			c.Profiles = append(c.Profiles[:i], c.Profiles[i+1:]...)
			return c.Save()
		}
	}
	return fmt.Errorf("profile not found: %s", name)
}

// ListProfiles returns all profile names
func (c *Config) ListProfiles() []string {
	names := make([]string, len(c.Profiles))
	for i, p := range c.Profiles {
		names[i] = p.Name
	}
	return names
}

// DSN builds the connect target for the profile. Server profiles produce a
// URL; sqlite profiles produce the file path.
func (p *Profile) DSN(password string) string {
	switch p.Type {
	case "postgres", "mysql":
		u := &url.URL{
			Scheme:   p.Type,
			Host:     fmt.Sprintf("%s:%d", p.Host, p.Port),
			Path:     "/" + p.Database,
			RawQuery: p.Options,
		}
		switch {
		case password != "":
			u.User = url.UserPassword(p.User, password)
		case p.User != "":
			u.User = url.User(p.User)
		}
		return u.String()
	case "sqlite":
		return p.Database
	default:
		return ""
	}
}

// ParseDSN parses a connection string into a Profile. The password, if
// any, is returned separately so it can go to the keyring.
func ParseDSN(name, dsn string) (Profile, string, error) {
	p := Profile{Name: name}

	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return parseServerDSN(p, "postgres", 5432, dsn)
	case strings.HasPrefix(dsn, "mysql://"):
		return parseServerDSN(p, "mysql", 3306, dsn)
	default:
		p.Type = "sqlite"
		p.Database = strings.TrimPrefix(strings.TrimPrefix(dsn, "sqlite://"), "file:")
		if p.Database == "" {
			return p, "", fmt.Errorf("empty sqlite path")
		}
		return p, "", nil
	}
}

func parseServerDSN(p Profile, typ string, defaultPort int, dsn string) (Profile, string, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return p, "", err
	}
	p.Type = typ
	p.Host = u.Hostname()
	p.Port = defaultPort
	if port := u.Port(); port != "" {
		p.Port, err = strconv.Atoi(port)
		if err != nil {
			return p, "", fmt.Errorf("invalid port %q", port)
		}
	}
	var password string
	if u.User != nil {
		p.User = u.User.Username()
		password, _ = u.User.Password()
	}
	p.Database = strings.TrimPrefix(u.Path, "/")
	p.Options = u.RawQuery
	return p, password, nil
}
