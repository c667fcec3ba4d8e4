package shapeyaml_test

import (
	"bytes"
	"errors"
	"log/slog"
	"math"
	"reflect"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/reoring/shapeyaml"
	"github.com/reoring/shapeyaml/node"
	"github.com/reoring/shapeyaml/shape"
	"github.com/reoring/shapeyaml/source/goccyyaml"
)

type Endpoint struct {
	Host string `yaml:"host"`
	Port uint16 `yaml:"port"`
}

type Service struct {
	Name      string            `yaml:"name"`
	Replicas  int32             `yaml:"replicas"`
	Ratio     float64           `yaml:"ratio"`
	Enabled   bool              `yaml:"enabled"`
	Endpoints []Endpoint        `yaml:"endpoints"`
	Labels    map[string]string `yaml:"labels"`
	Primary   *Endpoint         `yaml:"primary"`
}

func sample() Service {
	return Service{
		Name:     "api",
		Replicas: 3,
		Ratio:    0.25,
		Enabled:  true,
		Endpoints: []Endpoint{
			{Host: "b.internal", Port: 8080},
			{Host: "a.internal", Port: 9090},
		},
		Labels:  map[string]string{"tier": "web", "yes": "no"},
		Primary: &Endpoint{Host: "p", Port: 1},
	}
}

func codeOf(t *testing.T, err error) string {
	t.Helper()
	iss, ok := shapeyaml.AsIssues(err)
	require.True(t, ok, "expected Issues, got %T: %v", err, err)
	require.Len(t, iss, 1)
	return iss[0].Code
}

func TestFromStr_RoundTrip(t *testing.T) {
	want := sample()
	out, err := yaml.Marshal(want)
	require.NoError(t, err)

	got, err := shapeyaml.FromStr[Service](string(out))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFromStr_RoundTripAllDrivers(t *testing.T) {
	want := sample()
	out, err := yaml.Marshal(want)
	require.NoError(t, err)

	got, err := shapeyaml.FromStr[Service](string(out), shapeyaml.ParseOpt{Driver: goccyyaml.Driver{}})
	require.NoError(t, err)
	assert.Equal(t, want, got)

	drv, ok := shapeyaml.DriverByName("go-json")
	require.True(t, ok)
	got, err = shapeyaml.FromStr[Service](`{"name":"api","replicas":3,"ratio":0.25,"enabled":true,
		"endpoints":[{"host":"b.internal","port":8080},{"host":"a.internal","port":9090}],
		"labels":{"tier":"web","yes":"no"},"primary":{"host":"p","port":1}}`, shapeyaml.ParseOpt{Driver: drv})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFromStr_SequenceOrderPreserved(t *testing.T) {
	got, err := shapeyaml.FromStr[[]int]("[3, 1, 2]")
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1, 2}, got)
}

func TestFromStr_FieldOrderIrrelevant(t *testing.T) {
	a, err := shapeyaml.FromStr[Endpoint]("host: h\nport: 1\n")
	require.NoError(t, err)
	b, err := shapeyaml.FromStr[Endpoint]("port: 1\nhost: h\n")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestFromStr_EmptyCollections(t *testing.T) {
	l, err := shapeyaml.FromStr[[]string]("[]")
	require.NoError(t, err)
	assert.NotNil(t, l)
	assert.Empty(t, l)

	m, err := shapeyaml.FromStr[map[string]int]("{}")
	require.NoError(t, err)
	assert.NotNil(t, m)
	assert.Empty(t, m)
}

func TestFromStr_BoolCoercion(t *testing.T) {
	tests := map[string]bool{
		"true": true, "false": false, "TRUE": true,
		"yes": true, "no": false, "'1'": true, "off": false,
		"1": true, "0": false, "-5": true,
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			got, err := shapeyaml.FromStr[bool](in)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}

	_, err := shapeyaml.FromStr[bool]("1.5")
	assert.Equal(t, shapeyaml.CodeInvalidType, codeOf(t, err))
}

func TestFromStr_Uint8Range(t *testing.T) {
	v, err := shapeyaml.FromStr[uint8]("255")
	require.NoError(t, err)
	assert.Equal(t, uint8(255), v)

	_, err = shapeyaml.FromStr[uint8]("300")
	iss, ok := shapeyaml.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, shapeyaml.CodeOverflow, iss[0].Code)
	assert.Equal(t, "value 300 out of range for uint8", iss[0].Message)
	assert.Equal(t, "300", iss[0].Params["value"])
}

func TestFromStr_Numbers(t *testing.T) {
	u, err := shapeyaml.FromStr[uint64]("18446744073709551615")
	require.NoError(t, err)
	assert.Equal(t, uint64(18446744073709551615), u)

	f, err := shapeyaml.FromStr[float32]("7")
	require.NoError(t, err)
	assert.Equal(t, float32(7), f)

	f, err = shapeyaml.FromStr[float32]("1e39")
	require.NoError(t, err)
	assert.True(t, math.IsInf(float64(f), 1))

	i, err := shapeyaml.FromStr[int]("'-12'")
	require.NoError(t, err)
	assert.Equal(t, -12, i)

	_, err = shapeyaml.FromStr[int64]("abc")
	assert.Equal(t, shapeyaml.CodeInvalidFmt, codeOf(t, err))
}

func TestFromStr_UnknownKey(t *testing.T) {
	_, err := shapeyaml.FromStr[Endpoint]("host: h\nport: 1\nproto: tcp\n")
	iss, ok := shapeyaml.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, shapeyaml.CodeUnknownKey, iss[0].Code)
	assert.Equal(t, "field 'proto' not found", iss[0].Message)
	assert.Equal(t, 3, iss[0].Line)
	assert.NotEmpty(t, iss[0].Hint)
}

func TestFromStr_DocumentCount(t *testing.T) {
	for _, in := range []string{"", "1\n---\n2\n"} {
		_, err := shapeyaml.FromStr[int](in)
		assert.Equal(t, shapeyaml.CodeFormat, codeOf(t, err), "%q", in)
	}
	_, err := shapeyaml.FromStr[int]("1\n---\n2\n")
	assert.ErrorContains(t, err, "expected exactly one document, got 2")
}

func TestFromStr_Malformed(t *testing.T) {
	_, err := shapeyaml.FromStr[Endpoint]("host: [unclosed\n")
	assert.Equal(t, shapeyaml.CodeFormat, codeOf(t, err))
}

type Job struct {
	Name    string                      `yaml:"name"`
	Timeout shapeyaml.Option[uint32]    `yaml:"timeout"`
	Retries int                         `yaml:"retries" default:"3"`
	Backoff time.Duration               `yaml:"backoff" default:"250ms"`
	Start   shapeyaml.Option[time.Time] `yaml:"start"`
}

func TestFromStr_Option(t *testing.T) {
	got, err := shapeyaml.FromStr[Job]("name: a\ntimeout: null\n")
	require.NoError(t, err)
	assert.Equal(t, shapeyaml.None[uint32](), got.Timeout)

	got, err = shapeyaml.FromStr[Job]("name: a\ntimeout: 30\n")
	require.NoError(t, err)
	assert.Equal(t, shapeyaml.Some[uint32](30), got.Timeout)

	got, err = shapeyaml.FromStr[Job]("name: a\n")
	require.NoError(t, err)
	assert.False(t, got.Timeout.Valid)
	assert.Equal(t, uint32(5), got.Timeout.OrElse(5))
}

func TestFromStr_DefaultsAndHooks(t *testing.T) {
	got, err := shapeyaml.FromStr[Job]("name: a\nstart: 2024-05-01T10:00:00Z\n")
	require.NoError(t, err)
	assert.Equal(t, 3, got.Retries)
	assert.Equal(t, 250*time.Millisecond, got.Backoff)
	start, ok := got.Start.Get()
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), start.UTC())

	_, err = shapeyaml.FromStr[Job]("retries: 1\n")
	iss, ok := shapeyaml.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, shapeyaml.CodeRequired, iss[0].Code)
	assert.Equal(t, "missing required field 'name'", iss[0].Message)
}

func TestFromStrWithMeta(t *testing.T) {
	opt := shapeyaml.ParseOpt{Presence: shapeyaml.PresenceOpt{Collect: true}}
	dm, err := shapeyaml.FromStrWithMeta[Job]("name: a\ntimeout: ~\n", opt)
	require.NoError(t, err)
	assert.Equal(t, "a", dm.Value.Name)
	assert.True(t, dm.Presence.Seen("/name"))
	assert.True(t, dm.Presence.WasNull("/timeout"))
	assert.True(t, dm.Presence.DefaultApplied("/retries"))
	assert.False(t, dm.Presence.Seen("/retries"))
	assert.True(t, dm.Presence.DefaultApplied("/start"))

	assert.Equal(t, shapeyaml.PresenceDefaultApplied,
		shapeyaml.PresenceOf(dm, func(j *Job) *int { return &j.Retries }))

	opt.Presence.Include = []string{"/name"}
	opt.PathRender.Intern = true
	dm, err = shapeyaml.FromStrWithMeta[Job]("name: a\n", opt)
	require.NoError(t, err)
	assert.Equal(t, shapeyaml.PresenceMap{"/name": shapeyaml.PresenceSeen}, dm.Presence)

	opt = shapeyaml.ParseOpt{Presence: shapeyaml.PresenceOpt{Collect: true, Exclude: []string{"/"}}}
	dm, err = shapeyaml.FromStrWithMeta[Job]("name: a\n", opt)
	require.NoError(t, err)
	assert.Empty(t, dm.Presence)

	dm, err = shapeyaml.FromStrWithMeta[Job]("name: a\n")
	require.NoError(t, err)
	assert.Equal(t, "a", dm.Value.Name)
	assert.Nil(t, dm.Presence)
}

func TestFromStrWithMeta_DuplicateWarning(t *testing.T) {
	var logs bytes.Buffer
	opt := shapeyaml.ParseOpt{
		Strictness: shapeyaml.Strictness{OnDuplicateKey: shapeyaml.Warn},
		Logger:     slog.New(slog.NewTextHandler(&logs, nil)),
	}
	dm, err := shapeyaml.FromStrWithMeta[Endpoint]("host: a\nport: 1\nhost: b\n", opt)
	require.NoError(t, err)
	assert.Equal(t, "b", dm.Value.Host)
	require.Len(t, dm.Warnings, 1)
	assert.Equal(t, shapeyaml.CodeDuplicateKey, dm.Warnings[0].Code)
	assert.Equal(t, "/host", dm.Warnings[0].Path)
	assert.Equal(t, 3, dm.Warnings[0].Line)
	assert.Contains(t, logs.String(), "duplicate key")

	opt.Strictness.OnDuplicateKey = shapeyaml.Error
	_, err = shapeyaml.FromStr[Endpoint]("host: a\nport: 1\nhost: b\n", opt)
	assert.Equal(t, shapeyaml.CodeDuplicateKey, codeOf(t, err))
}

func TestAliases(t *testing.T) {
	in := "base: &b {host: h, port: 1}\ncopy: *b\n"
	_, err := shapeyaml.FromStr[map[string]Endpoint](in)
	assert.Equal(t, shapeyaml.CodeInvalidType, codeOf(t, err))

	got, err := shapeyaml.FromStr[map[string]Endpoint](in, shapeyaml.ParseOpt{ResolveAliases: true})
	require.NoError(t, err)
	assert.Equal(t, got["base"], got["copy"])
}

func TestLimits(t *testing.T) {
	_, err := shapeyaml.FromStr[[]int]("[1, 2, 3]", shapeyaml.ParseOpt{MaxBytes: 4})
	assert.Equal(t, shapeyaml.CodeTruncated, codeOf(t, err))

	_, err = shapeyaml.FromReader[[]int](strings.NewReader("[1, 2, 3]"), shapeyaml.ParseOpt{MaxBytes: 4})
	assert.Equal(t, shapeyaml.CodeTruncated, codeOf(t, err))

	got, err := shapeyaml.FromReader[[]int](strings.NewReader("[1, 2, 3]"))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, got)

	_, err = shapeyaml.FromStr[[][]int]("[[1]]", shapeyaml.ParseOpt{MaxDepth: 1})
	assert.Equal(t, shapeyaml.CodeMaxDepth, codeOf(t, err))
}

func TestUnmarshal(t *testing.T) {
	var ep Endpoint
	require.NoError(t, shapeyaml.Unmarshal([]byte("host: h\nport: 2\n"), &ep))
	assert.Equal(t, Endpoint{Host: "h", Port: 2}, ep)

	assert.ErrorIs(t, shapeyaml.Unmarshal([]byte("1"), nil), shapeyaml.ErrNilTarget)
	assert.ErrorIs(t, shapeyaml.Unmarshal([]byte("1"), (*int)(nil)), shapeyaml.ErrNilTarget)
	assert.ErrorIs(t, shapeyaml.Unmarshal([]byte("1"), 1), shapeyaml.ErrNotPointer)

	ep = Endpoint{Host: "keep"}
	err := shapeyaml.Unmarshal([]byte("port: 2\n"), &ep)
	assert.Equal(t, shapeyaml.CodeRequired, codeOf(t, err))
	assert.Equal(t, "keep", ep.Host, "target is untouched on failure")
}

func TestDecodeShape(t *testing.T) {
	v, err := shapeyaml.DecodeShape([]byte("[a, b]"), shape.For(reflect.TypeFor[[]string]()))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, v.Interface())

	_, err = shapeyaml.DecodeShape([]byte("1"), nil)
	assert.ErrorIs(t, err, shapeyaml.ErrNilTarget)

	_, err = shapeyaml.DecodeShape([]byte("1"), shape.Of[func()]())
	assert.Equal(t, shapeyaml.CodeUnsupported, codeOf(t, err))
}

func TestLoadDocument(t *testing.T) {
	root, err := shapeyaml.LoadDocument([]byte("a: 1\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, root.Len())

	_, err = shapeyaml.LoadDocument([]byte("a: 1\n---\nb: 2\n"))
	assert.Equal(t, shapeyaml.CodeFormat, codeOf(t, err))
}

func TestLoadDocuments(t *testing.T) {
	docs, err := shapeyaml.LoadDocuments([]byte("a: 1\n---\n- x\n"))
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "mapping", node.KindName(docs[0]))
	assert.Equal(t, "sequence", node.KindName(docs[1]))

	_, err = shapeyaml.LoadDocuments([]byte("a: 1\n"), shapeyaml.ParseOpt{MaxBytes: 2})
	assert.Equal(t, shapeyaml.CodeTruncated, codeOf(t, err))

	_, err = shapeyaml.LoadDocuments([]byte("a: [1\n"))
	assert.Equal(t, shapeyaml.CodeFormat, codeOf(t, err))
}

func TestSetDriver(t *testing.T) {
	t.Cleanup(shapeyaml.UseDefaultDriver)
	assert.Equal(t, "yaml.v3", shapeyaml.CurrentDriver().Name())

	shapeyaml.SetDriver(goccyyaml.Driver{})
	assert.Equal(t, "go-yaml", shapeyaml.CurrentDriver().Name())
	got, err := shapeyaml.FromStr[Endpoint]("host: h\nport: 3\n")
	require.NoError(t, err)
	assert.Equal(t, uint16(3), got.Port)

	shapeyaml.SetDriver(nil)
	assert.Equal(t, "go-yaml", shapeyaml.CurrentDriver().Name())

	_, ok := shapeyaml.DriverByName("toml")
	assert.False(t, ok)
}

type Outer struct {
	Server struct {
		Port  int    `yaml:"port"`
		Proto string `yaml:"proto"`
	} `yaml:"server"`
	Name string `yaml:"a/b"`
}

func TestFieldNameAndPath(t *testing.T) {
	assert.Equal(t, "port", shapeyaml.FieldNameOf(func(e *Endpoint) *uint16 { return &e.Port }))
	assert.Equal(t, "/server/port", shapeyaml.PathOf(func(o *Outer) *int { return &o.Server.Port }))
	assert.Equal(t, "/server/proto", shapeyaml.PathOf(func(o *Outer) *string { return &o.Server.Proto }))
	assert.Equal(t, "/a~1b", shapeyaml.PathOf(func(o *Outer) *string { return &o.Name }))
}

func TestIssues_Error(t *testing.T) {
	iss := shapeyaml.Issues{
		{Path: "/a", Code: shapeyaml.CodeInvalidType, Line: 2},
		{Path: "/b", Code: shapeyaml.CodeUnknownKey},
		{Path: "/c", Code: shapeyaml.CodeRequired},
		{Path: "/d", Code: shapeyaml.CodeOverflow},
	}
	assert.Equal(t, "invalid_type at /a (line 2); unknown_key at /b; required at /c; ... (total 4)", iss.Error())
	assert.Empty(t, shapeyaml.Issues{}.Error())

	cause := errors.New("root cause")
	wrapped := shapeyaml.Issues{{Code: shapeyaml.CodeInvalidFmt, Cause: cause}}
	assert.ErrorIs(t, wrapped, cause)

	more := shapeyaml.AppendIssues(nil, shapeyaml.Issue{Code: shapeyaml.CodeFormat})
	assert.Len(t, more, 1)
}

func TestFromStr_EmptyLiteralDefault(t *testing.T) {
	type annotated struct {
		Name string `yaml:"name"`
		Note string `yaml:"note" default:""`
	}
	got, err := shapeyaml.FromStr[annotated]("name: x\n")
	require.NoError(t, err)
	assert.Equal(t, annotated{Name: "x"}, got)

	got, err = shapeyaml.FromStr[annotated]("name: x\nnote: hi\n")
	require.NoError(t, err)
	assert.Equal(t, "hi", got.Note)
}

func TestFromStr_AliasFanOut(t *testing.T) {
	type layers struct {
		A0 []int             `yaml:"a0"`
		A1 [][]int           `yaml:"a1"`
		A2 [][][]int         `yaml:"a2"`
		A3 [][][][]int       `yaml:"a3"`
		A4 [][][][][]int     `yaml:"a4"`
		A5 [][][][][][]int   `yaml:"a5"`
		A6 [][][][][][][]int `yaml:"a6"`
	}
	var b strings.Builder
	b.WriteString("a0: &a0 [0,1,2,3,4,5,6,7,8,9]\n")
	for l := 1; l <= 6; l++ {
		ref := "*a" + strconv.Itoa(l-1)
		b.WriteString("a" + strconv.Itoa(l) + ": &a" + strconv.Itoa(l) + " [" +
			strings.TrimSuffix(strings.Repeat(ref+",", 10), ",") + "]\n")
	}
	_, err := shapeyaml.FromStr[layers](b.String(), shapeyaml.ParseOpt{ResolveAliases: true})
	iss, ok := shapeyaml.AsIssues(err)
	require.True(t, ok, "got %v", err)
	assert.Equal(t, shapeyaml.CodeExcessiveAliasing, iss[0].Code)
	assert.NotEmpty(t, iss[0].Hint)
}
