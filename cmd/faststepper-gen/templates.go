package main

import (
	"fmt"
	"strings"
	"text/template"
)

// funcMap provides helper functions available to all templates.
var funcMap = template.FuncMap{
	"firstLower": firstLower,
	"goType":     goType,
	"hex":        func(v uint32) string { return fmt.Sprintf("0x%X", v) },
	"quote":      func(s string) string { return fmt.Sprintf("%q", s) },
	"sentence":   sentence,
}

// templates holds all parsed code generation templates.
var templates = template.Must(template.New("").Funcs(funcMap).Parse(
	registerFileTmpl +
		bitMaskTmpl +
		clientFileTmpl,
))

// renderTemplate executes a named template into the builder.
func renderTemplate(b *strings.Builder, name string, data any) {
	if err := templates.ExecuteTemplate(b, name, data); err != nil {
		panic(fmt.Sprintf("template %s: %v", name, err))
	}
}

// --- Template data types ---

// registerFileData holds pre-computed data for the register table template.
type registerFileData struct {
	Device    string
	WhoAmI    uint16
	Firmware  string
	Registers []registerData
	BitMasks  []RawBitMaskDef
}

type registerData struct {
	Name        string
	Address     uint8
	Wire        string
	Length      int
	AccessExpr  string
	Semantic    string
	BitsVar     string
	ElemType    string // element type inside the register package
	ValueType   string // value type as seen by callers of the client
	Suffix      string // "Array" for multi-element registers
	Array       bool
	Writable    bool
	Description string
}

// clientFileData holds data for the client accessor template.
type clientFileData struct {
	Device         string
	RegisterImport string
	Registers      []registerData
}

// --- Template definitions ---

const registerFileTmpl = `{{define "registerFile"}}// Code generated by faststepper-gen. DO NOT EDIT.

package register

// {{.Device}}WhoAmI is the identity reported by {{.Device}} devices.
const {{.Device}}WhoAmI uint16 = {{.WhoAmI}}
{{- if .Firmware}}

// {{.Device}}FirmwareVersion is the firmware version the register map describes.
const {{.Device}}FirmwareVersion = {{quote .Firmware}}
{{- end}}

// {{.Device}} register addresses.
const (
{{- range .Registers}}
Address{{.Name}} uint8 = {{.Address}}
{{- end}}
)
{{range .BitMasks}}{{template "bitMask" .}}{{end}}
// {{.Device}} is the schema of the {{.Device}} device registers.
var {{.Device}} = MustSchema({{quote .Device}},
{{- range .Registers}}
Descriptor{Address: Address{{.Name}}, Name: {{quote .Name}}, Wire: {{.Wire}}, Semantic: {{.Semantic}}, Length: {{.Length}}, Access: {{.AccessExpr}},
Description: {{quote .Description}}{{if .BitsVar}}, Bits: {{.BitsVar}}{{end}}},
{{- end}}
)

// Typed {{.Device}} registers.
var (
{{- range .Registers}}
{{.Name}} = {{if .Array}}MustDefineArray{{else}}MustDefine{{end}}[{{.ElemType}}]({{$.Device}}, Address{{.Name}})
{{- end}}
)
{{end}}`

const bitMaskTmpl = `{{define "bitMask"}}{{$type := .Name}}{{$prefix := .Prefix}}
// {{.Name}} {{firstLower (sentence .Description)}}
type {{.Name}} {{goType .Type}}

const (
{{$prefix}}None {{$type}} = 0x0
{{- range .Bits}}
{{$prefix}}{{.Name}} {{$type}} = {{hex .Value}}
{{- end}}
)

var {{firstLower .Name}}Bits = []Bit{
{{- range .Bits}}
{Name: {{quote .Name}}, Mask: {{hex .Value}}{{if .Description}}, Usage: {{quote .Description}}{{end}}},
{{- end}}
}

// Has reports whether every bit in bits is set.
func (f {{$type}}) Has(bits {{$type}}) bool { return f&bits == bits }

// With returns f with bits set.
func (f {{$type}}) With(bits {{$type}}) {{$type}} { return f | bits }

// Without returns f with bits cleared.
func (f {{$type}}) Without(bits {{$type}}) {{$type}} { return f &^ bits }

// String returns the set bit names joined by "|".
func (f {{$type}}) String() string { return formatBits(uint32(f), {{firstLower .Name}}Bits) }
{{end}}`

const clientFileTmpl = `{{define "clientFile"}}// Code generated by faststepper-gen. DO NOT EDIT.

package device

import (
"context"

"{{.RegisterImport}}"
)
{{range .Registers}}
// Read{{.Name}} reads the contents of the {{.Name}} register.
func (c *Client) Read{{.Name}}(ctx context.Context) ({{.ValueType}}, error) {
return Read{{.Suffix}}(ctx, c, register.{{.Name}})
}

// ReadTimestamped{{.Name}} reads the timestamped contents of the {{.Name}} register.
func (c *Client) ReadTimestamped{{.Name}}(ctx context.Context) (register.Timestamped[{{.ValueType}}], error) {
return ReadTimestamped{{.Suffix}}(ctx, c, register.{{.Name}})
}
{{- if .Writable}}

// Write{{.Name}} writes a value to the {{.Name}} register.
func (c *Client) Write{{.Name}}(ctx context.Context, value {{.ValueType}}) error {
return Write{{.Suffix}}(ctx, c, register.{{.Name}}, value)
}
{{- end}}
{{end}}{{end}}`
