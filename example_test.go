package shapeyaml_test

import (
	"fmt"

	"github.com/reoring/shapeyaml"
)

func ExampleFromStr() {
	type Listener struct {
		Addr    string                `yaml:"addr"`
		Port    uint16                `yaml:"port"`
		Backlog shapeyaml.Option[int] `yaml:"backlog"`
		Workers int                   `yaml:"workers" default:"4"`
	}

	l, err := shapeyaml.FromStr[Listener]("port: 8443\naddr: 0.0.0.0\n")
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(l.Addr, l.Port, l.Backlog.Valid, l.Workers)
	// Output: 0.0.0.0 8443 false 4
}

func ExampleAsIssues() {
	_, err := shapeyaml.FromStr[map[string]uint8]("small: 1\nlarge: 300\n")
	iss, _ := shapeyaml.AsIssues(err)
	fmt.Println(iss[0].Code, iss[0].Path, iss[0].Line)
	fmt.Println(iss[0].Message)
	// Output:
	// overflow /large 2
	// value 300 out of range for uint8
}
