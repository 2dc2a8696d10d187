package config

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// YAMLConfig represents the structure of the config.yaml file.
// Lists and maps that are awkward as env vars live here.
type YAMLConfig struct {
	Admins        AdminsConfig        `yaml:"admins"`
	Storage       StorageConfig       `yaml:"storage"`
	Regions       RegionsConfig       `yaml:"regions"`
	Notifications NotificationsConfig `yaml:"notifications"`
}

// AdminsConfig lists who may moderate.
type AdminsConfig struct {
	Emails []string `yaml:"emails"` // SSO accounts granted the admin session
}

// StorageConfig describes which image URLs are accepted in edit requests.
type StorageConfig struct {
	Hosts        []string `yaml:"hosts"`
	PathPatterns []string `yaml:"path_patterns"` // regular expressions matched against the URL path
	MaxPhotos    int      `yaml:"max_photos"`
}

// RegionsConfig maps address prefixes onto directory regions.
type RegionsConfig struct {
	Aliases map[string]string `yaml:"aliases"` // e.g. "성남시": "경기"
}

// NotificationsConfig toggles moderation emails.
type NotificationsConfig struct {
	NotifyAdminsOnSubmit bool     `yaml:"notify_admins_on_submit"`
	NotifyCrewOnDecision bool     `yaml:"notify_crew_on_decision"`
	AdminRecipients      []string `yaml:"admin_recipients"`
}

// DefaultStoragePathPattern matches public objects in the crew image bucket.
const DefaultStoragePathPattern = `^/storage/v1/object/public/crew-images/(logos|photos)/[A-Za-z0-9._/-]+$`

// LoadYAMLConfig loads the YAML configuration file.
// Path is determined by CONFIG_FILE env var, defaulting to "config.yaml".
// A missing file yields the defaults.
func LoadYAMLConfig() (*YAMLConfig, error) {
	path := getEnv("CONFIG_FILE", "config.yaml")

	var cfg YAMLConfig
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *YAMLConfig) applyDefaults() {
	if len(c.Storage.PathPatterns) == 0 {
		c.Storage.PathPatterns = []string{DefaultStoragePathPattern}
	}
	if c.Storage.MaxPhotos == 0 {
		c.Storage.MaxPhotos = 10
	}
}

// StorageHosts merges STORAGE_PUBLIC_HOST with the hosts listed in YAML.
func (c *YAMLConfig) StorageHosts(cfg *Config) []string {
	var hosts []string
	if cfg != nil && cfg.StoragePublicHost != "" {
		hosts = append(hosts, cfg.StoragePublicHost)
	}
	if c != nil {
		hosts = append(hosts, c.Storage.Hosts...)
	}
	return hosts
}

// IsAdminEmail reports whether an SSO email is on the admin allowlist.
func (c *YAMLConfig) IsAdminEmail(email string) bool {
	if c == nil || email == "" {
		return false
	}
	for _, e := range c.Admins.Emails {
		if strings.EqualFold(e, email) {
			return true
		}
	}
	return false
}
