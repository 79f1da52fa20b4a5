// Package gopoisson exposes Poisson series calculus (sine and cosine of
// series, integration, time integration into echeloned form) and canonical
// divisors through a JSON tool interface suitable for MCP servers.
//
// Series are exchanged as JSON objects:
//
//	{"type":"polynomial","terms":[{"coefficient":"-2","exponents":{"x":1}}]}
//	{"type":"poisson_series","terms":[{"coefficient":"1/2","flavour":"cos","multipliers":{"x":1}}]}
//	{"type":"divisor_series","symbols":["\\nu_{x}"],"terms":[{"coefficient":"1","divisor":{"entries":[{"values":[1],"exponent":1}]}}]}
package gopoisson

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sync"

	"github.com/njchilds90/gopoisson/algebra"
	"github.com/njchilds90/gopoisson/divisor"
	"github.com/njchilds90/gopoisson/divseries"
	"github.com/njchilds90/gopoisson/poisson"
	"github.com/njchilds90/gopoisson/poly"
	"github.com/njchilds90/gopoisson/registry"
	"github.com/njchilds90/gopoisson/symbols"
)

// ============================================================
// Type Registry
// ============================================================

var (
	typesOnce sync.Once
	types     *registry.Registry
)

var (
	rationalType   = reflect.TypeOf(algebra.Rational{})
	polynomialType = reflect.TypeOf(poly.Polynomial{})
	divisorType    = reflect.TypeOf((*divisor.Short)(nil))
	divSeriesType  = reflect.TypeOf(divseries.Series{})
	poissonType    = reflect.TypeOf((*poisson.Series)(nil))
)

// Types returns the process-wide registry of exposed types.
func Types() *registry.Registry {
	typesOnce.Do(func() {
		r := registry.New()
		for _, e := range []struct {
			t    reflect.Type
			name string
		}{
			{rationalType, "rational"},
			{polynomialType, "polynomial"},
			{divisorType, "divisor"},
			{divSeriesType, "divisor_series"},
			{poissonType, "poisson_series"},
		} {
			if err := r.Expose(e.t, e.name); err != nil {
				panic(err)
			}
		}
		for _, g := range []struct {
			name string
			pack []reflect.Type
			t    reflect.Type
		}{
			{"poisson_series", []reflect.Type{polynomialType}, poissonType},
			{"divisor_series", []reflect.Type{polynomialType, divisorType}, divSeriesType},
			{"poisson_series", []reflect.Type{divSeriesType}, poissonType},
		} {
			if err := r.ExposeGeneric(g.name, g.pack, g.t); err != nil {
				panic(err)
			}
		}
		types = r
	})
	return types
}

// ============================================================
// MCP Tool Interface
// ============================================================

type ToolRequest struct {
	Tool   string                 `json:"tool"`
	Params map[string]interface{} `json:"params"`
}

type ToolResponse struct {
	Result interface{} `json:"result,omitempty"`
	LaTeX  string      `json:"latex,omitempty"`
	String string      `json:"string,omitempty"`
	Type   string      `json:"type,omitempty"`
	Error  string      `json:"error,omitempty"`
}

func HandleToolCall(req ToolRequest) ToolResponse {
	getObject := func(key string) (map[string]interface{}, error) {
		v, ok := req.Params[key]
		if !ok {
			return nil, fmt.Errorf("missing param: %s", key)
		}
		m, ok := v.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("invalid type for param %s", key)
		}
		return m, nil
	}
	getSeries := func(key string) (*poisson.Series, error) {
		m, err := getObject(key)
		if err != nil {
			return nil, err
		}
		return PoissonFromJSON(m)
	}
	getString := func(key string) (string, error) {
		v, ok := req.Params[key]
		if !ok {
			return "", fmt.Errorf("missing param: %s", key)
		}
		s, ok := v.(string)
		if !ok {
			return "", fmt.Errorf("param %s must be a string", key)
		}
		return s, nil
	}
	getStrings := func(key string) ([]string, error) {
		l, err := stringList(req.Params[key])
		if err != nil {
			return nil, fmt.Errorf("param %s %v", key, err)
		}
		return l, nil
	}
	respond := func(s *poisson.Series) ToolResponse {
		name, _ := Types().Lookup(reflect.TypeOf(s))
		return ToolResponse{Result: PoissonToJSON(s), LaTeX: s.LaTeX(), String: s.String(), Type: name}
	}

	switch req.Tool {
	case "poisson_sin", "poisson_cos":
		s, err := getSeries("series")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		var out *poisson.Series
		if req.Tool == "poisson_cos" {
			out, err = s.Cos()
		} else {
			out, err = s.Sin()
		}
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		return respond(out)

	case "poisson_integrate", "poisson_partial":
		s, err := getSeries("series")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		v, err := getString("var")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		var out *poisson.Series
		if req.Tool == "poisson_partial" {
			out, err = s.Partial(v)
		} else {
			out, err = s.Integrate(v)
		}
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		return respond(out)

	case "poisson_time_integrate":
		s, err := getSeries("series")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		out, err := s.TimeIntegrate()
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		return respond(out)

	case "divisor_canonicalize":
		m, err := getObject("divisor")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		d, err := DivisorFromJSON(m)
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		names, err := getStrings("symbols")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		raw, err := json.Marshal(d)
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		typ, _ := Types().Lookup(reflect.TypeOf(d))
		resp := ToolResponse{Result: json.RawMessage(raw), Type: typ}
		if len(names) > 0 {
			ss := symbols.New(names...)
			if !d.IsCompatible(ss) {
				return ToolResponse{Error: fmt.Sprintf("divisor is not compatible with symbols %s", ss)}
			}
			resp.LaTeX, resp.String = d.LaTeX(ss), d.String(ss)
		}
		return resp

	case "type_lookup":
		name, err := getString("name")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		if _, ok := req.Params["pack"]; !ok {
			t, err := Types().LookupName(name)
			if err != nil {
				return ToolResponse{Error: err.Error()}
			}
			return ToolResponse{Result: t.String(), String: t.String(), Type: name}
		}
		packNames, err := getStrings("pack")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		pack := make([]reflect.Type, len(packNames))
		for i, n := range packNames {
			if pack[i], err = Types().LookupName(n); err != nil {
				return ToolResponse{Error: err.Error()}
			}
		}
		t, err := Types().LookupGeneric(name, pack)
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		exposed, _ := Types().Lookup(t)
		return ToolResponse{Result: t.String(), String: t.String(), Type: exposed}

	case "mcp_spec":
		return ToolResponse{Result: MCPToolSpec()}
	}
	return ToolResponse{Error: fmt.Sprintf("unknown tool: %s", req.Tool)}
}

// MCPToolSpec returns the MCP tool schema as JSON.
func MCPToolSpec() string {
	tools := []map[string]interface{}{
		ts("poisson_sin", "Sine of a Poisson series. Integral linear combinations of symbols become a single sine term", []string{"series"}, map[string]string{"series": "object"}),
		ts("poisson_cos", "Cosine of a Poisson series. Integral linear combinations of symbols become a single cosine term", []string{"series"}, map[string]string{"series": "object"}),
		ts("poisson_integrate", "Antiderivative of a Poisson series with respect to var", []string{"series", "var"}, map[string]string{"series": "object", "var": "string"}),
		ts("poisson_partial", "Partial derivative of a Poisson series with respect to var", []string{"series", "var"}, map[string]string{"series": "object", "var": "string"}),
		ts("poisson_time_integrate", "Time integration into an echeloned series with divisor series coefficients", []string{"series"}, map[string]string{"series": "object"}),
		ts("divisor_canonicalize", "Validate and normalise a divisor {entries:[{values,exponent}]}. Optional symbols (string[]) for rendering", []string{"divisor"}, map[string]string{"divisor": "object", "symbols": "array"}),
		ts("type_lookup", "Look up an exposed type by name, or a generic instantiation with pack (string[])", []string{"name"}, map[string]string{"name": "string", "pack": "array"}),
		ts("mcp_spec", "Return this tool schema", []string{}, map[string]string{}),
	}
	spec := map[string]interface{}{"tools": tools}
	b, _ := json.MarshalIndent(spec, "", "  ")
	return string(b)
}

func ts(name, description string, required []string, props map[string]string) map[string]interface{} {
	properties := map[string]interface{}{}
	for k, typ := range props {
		properties[k] = map[string]interface{}{"type": typ}
	}
	return map[string]interface{}{
		"name":        name,
		"description": description,
		"inputSchema": map[string]interface{}{
			"type":       "object",
			"properties": properties,
			"required":   required,
		},
	}
}
