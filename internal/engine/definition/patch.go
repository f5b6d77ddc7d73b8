// # internal/engine/definition/patch.go
package definition

import "apidocgen/internal/core/diag"

// Patch failures are logged at line 0 and leave the model untouched. A
// successful patch always replaces the inferred type and drops any
// anonymous type.

func (o *Output) PatchPropertyType(path, typ string, sink diag.Sink) bool {
	property := o.FindProperty(path)
	if property == nil {
		sink.Error(o.URL, 0, "PATCH: could not find property %s", path)
		return false
	}
	property.SetType(typ)
	return true
}

func (o *Output) PatchMethodReturnType(path, typ string, sink diag.Sink) bool {
	method := o.FindMethod(path)
	if method == nil {
		sink.Error(o.URL, 0, "PATCH: could not find method %s", path)
		return false
	}
	method.Returns = &Parameter{Type: typ}
	return true
}

func (o *Output) PatchMethodParameterType(path, paramPath, typ string, sink diag.Sink) bool {
	method := o.FindMethod(path)
	if method == nil {
		sink.Error(o.URL, 0, "PATCH: could not find method %s", path)
		return false
	}
	param := method.FindParameter(paramPath)
	if param == nil {
		sink.Error(o.URL, 0, "PATCH: method %s has no parameter %s", path, paramPath)
		return false
	}
	param.SetType(typ)
	return true
}

func (o *Output) PatchEventReturnParameterType(eventName, paramName, typ string, sink diag.Sink) bool {
	event := o.FindEvent(eventName)
	if event == nil {
		sink.Error(o.URL, 0, "PATCH: could not find event %s", eventName)
		return false
	}
	if len(event.Returns) == 0 {
		sink.Error(o.URL, 0, "PATCH: event %s has no return parameters", eventName)
		return false
	}
	param := findParameter(event.Returns, paramName)
	if param == nil {
		sink.Error(o.URL, 0, "PATCH: could not find return parameter %s in event %s", paramName, eventName)
		return false
	}
	param.SetType(typ)
	return true
}

// PatchInterfaceType turns a data type into an interface whose members are
// all optional.
func (o *Output) PatchInterfaceType(name string, sink diag.Sink) bool {
	dataType := o.FindDataType(name)
	if dataType == nil {
		sink.Error(o.URL, 0, "PATCH: could not find data type %s", name)
		return false
	}
	dataType.IsInterface = true
	dataType.MakeAllMembersOptional()
	return true
}

type MethodReturnPatch struct {
	Method string
	Type   string
}

type MethodParamPatch struct {
	Method string
	Param  string
	Type   string
}

type EventParamPatch struct {
	Event string
	Param string
	Type  string
}

type PropertyPatch struct {
	Property string
	Type     string
}

// Patches is the per-document override list, applied after parsing.
type Patches struct {
	MethodReturns  []MethodReturnPatch
	MethodParams   []MethodParamPatch
	EventParams    []EventParamPatch
	Properties     []PropertyPatch
	InterfaceTypes []string
}

func (p Patches) Len() int {
	return len(p.MethodReturns) + len(p.MethodParams) + len(p.EventParams) +
		len(p.Properties) + len(p.InterfaceTypes)
}

// ApplyPatches applies every patch in order and returns how many succeeded.
func ApplyPatches(o *Output, patches Patches, sink diag.Sink) int {
	if sink == nil {
		sink = diag.Discard
	}
	applied := 0
	count := func(ok bool) {
		if ok {
			applied++
		}
	}
	for _, p := range patches.MethodReturns {
		count(o.PatchMethodReturnType(p.Method, p.Type, sink))
	}
	for _, p := range patches.MethodParams {
		count(o.PatchMethodParameterType(p.Method, p.Param, p.Type, sink))
	}
	for _, p := range patches.EventParams {
		count(o.PatchEventReturnParameterType(p.Event, p.Param, p.Type, sink))
	}
	for _, p := range patches.Properties {
		count(o.PatchPropertyType(p.Property, p.Type, sink))
	}
	for _, name := range patches.InterfaceTypes {
		count(o.PatchInterfaceType(name, sink))
	}
	return applied
}
