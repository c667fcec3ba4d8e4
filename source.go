package shapeyaml

import (
	"sync"

	"github.com/reoring/shapeyaml/node"
	"github.com/reoring/shapeyaml/source/goccyyaml"
	"github.com/reoring/shapeyaml/source/gojson"
	"github.com/reoring/shapeyaml/source/yamlv3"
)

// Driver turns raw text into source nodes, one per document. The default
// implementation is based on gopkg.in/yaml.v3 and may be swapped with
// SetDriver.
type Driver interface {
	Load(data []byte) ([]*node.Node, error)
	Name() string
}

var (
	driverMu      sync.RWMutex
	currentDriver Driver = yamlv3.Driver{}
)

// SetDriver replaces the global driver; nil values are ignored.
func SetDriver(d Driver) {
	if d == nil {
		return
	}
	driverMu.Lock()
	currentDriver = d
	driverMu.Unlock()
}

// UseDefaultDriver restores the yaml.v3-backed driver.
func UseDefaultDriver() {
	driverMu.Lock()
	currentDriver = yamlv3.Driver{}
	driverMu.Unlock()
}

// CurrentDriver returns the global driver.
func CurrentDriver() Driver { return getDriver() }

func getDriver() Driver {
	driverMu.RLock()
	d := currentDriver
	driverMu.RUnlock()
	return d
}

// DriverByName returns a built-in driver: "yaml.v3", "go-yaml" or "go-json".
func DriverByName(name string) (Driver, bool) {
	switch name {
	case "yaml.v3", "yamlv3", "":
		return yamlv3.Driver{}, true
	case "go-yaml", "goccy":
		return goccyyaml.Driver{}, true
	case "go-json", "json":
		return gojson.Driver{}, true
	}
	return nil, false
}

// DriverNames lists the names accepted by DriverByName.
func DriverNames() []string { return []string{"yaml.v3", "go-yaml", "go-json"} }
