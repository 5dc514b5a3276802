package config

import (
	"os"

	"github.com/pkg/errors"
)

const example = `# uptui configuration
#
# refresh: interval between probe cycles (Go duration or seconds)
# concurrency: maximum probes in flight, 0 for unlimited
# defaults: fields merged into every monitor that leaves them empty

refresh: 30s
concurrency: 0

defaults:
  timeout: 5

monitors:
  - name: Example site
    url: https://example.com

  - name: Local SSH
    type: tcp
    host: 127.0.0.1
    port: 22
    timeout: 2

  - name: Example DNS
    type: dns
    host: example.com
    server: 1.1.1.1:53
    record: A
`

// Example returns an example config file in YAML.
func Example() []byte {
	return []byte(example)
}

// WriteExample writes the example config to path. It refuses to overwrite an
// existing file unless force is set.
func WriteExample(path string, force bool) error {
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !force {
		flags |= os.O_EXCL
	}

	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}

	if _, err := f.Write(Example()); err != nil {
		_ = f.Close()
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return errors.Wrapf(f.Close(), "failed to close %s", path)
}
