package cmd

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// yamlUnmarshalImpl is separated for clarity/testability
func yamlUnmarshalImpl(b []byte, out any) error {
	if err := yaml.Unmarshal(b, out); err != nil {
		return fmt.Errorf("yaml unmarshal: %w", err)
	}
	return nil
}

// UnmarshalYAML accepts "host"/"hostname" for address and "user" for
// username, matching the field names operators copy from other tools.
func (h *hostConfig) UnmarshalYAML(value *yaml.Node) error {
	var aux struct {
		Address    string `yaml:"address"`
		Host       string `yaml:"host"`
		Hostname   string `yaml:"hostname"`
		Username   string `yaml:"username"`
		User       string `yaml:"user"`
		Password   string `yaml:"password"`
		Port       int    `yaml:"port"`
		Key        string `yaml:"key"`
		Passphrase string `yaml:"passphrase"`
		Timeout    string `yaml:"timeout"`
	}
	if err := value.Decode(&aux); err != nil {
		return err
	}
	h.Address = firstNonEmpty(aux.Address, aux.Host, aux.Hostname)
	h.Username = firstNonEmpty(aux.Username, aux.User)
	h.Password = aux.Password
	h.Port = aux.Port
	h.KeyPath = aux.Key
	h.Passphrase = aux.Passphrase
	h.Timeout = aux.Timeout
	return nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
