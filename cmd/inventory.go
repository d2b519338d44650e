package cmd

// inventory models the YAML file listing the routers to back up. Values under
// defaults apply to every router entry that leaves them unset.
type inventory struct {
	Defaults hostDefaults `yaml:"defaults,omitempty"`
	Routers  []hostConfig `yaml:"routers"`
}

// hostDefaults are connection settings shared by several routers. The same
// shape carries the CLI/env values, which take precedence over the file.
type hostDefaults struct {
	Username   string `yaml:"username,omitempty"`
	Password   string `yaml:"password,omitempty"`
	Port       int    `yaml:"port,omitempty"`
	KeyPath    string `yaml:"key,omitempty"`
	Passphrase string `yaml:"passphrase,omitempty"`
}

// merge returns d with empty fields taken from fallback.
func (d hostDefaults) merge(fallback hostDefaults) hostDefaults {
	if d.Username == "" {
		d.Username = fallback.Username
	}
	if d.Password == "" {
		d.Password = fallback.Password
	}
	if d.Port == 0 {
		d.Port = fallback.Port
	}
	if d.KeyPath == "" {
		d.KeyPath = fallback.KeyPath
	}
	if d.Passphrase == "" {
		d.Passphrase = fallback.Passphrase
	}
	return d
}
