//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/voxelsplace/voxscene/api"
)

func bytesFromJS(v js.Value) []byte {
	buf := make([]byte, v.Get("length").Int())
	js.CopyBytesToGo(buf, v)
	return buf
}

// sceneToGLB(bytes, name?, instanced?) returns a Uint8Array or an error string.
func sceneToGLB(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf("missing scene bytes")
	}
	name := ""
	if len(args) > 1 && args[1].Type() == js.TypeString {
		name = args[1].String()
	}
	instanced := len(args) > 2 && args[2].Truthy()
	out, err := api.SceneToGLB(bytesFromJS(args[0]), name, instanced)
	if err != nil {
		return js.ValueOf(err.Error())
	}
	uint8arr := js.Global().Get("Uint8Array").New(len(out))
	js.CopyBytesToJS(uint8arr, out)
	return uint8arr
}

// inspectScene(bytes, name?) returns the summary as a JSON string.
func inspectScene(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf("missing scene bytes")
	}
	name := ""
	if len(args) > 1 && args[1].Type() == js.TypeString {
		name = args[1].String()
	}
	sum, err := api.Inspect(bytesFromJS(args[0]), name)
	if err != nil {
		return js.ValueOf(err.Error())
	}
	b, err := json.Marshal(sum)
	if err != nil {
		return js.ValueOf(err.Error())
	}
	return js.ValueOf(string(b))
}

func main() {
	js.Global().Set("sceneToGLB", js.FuncOf(sceneToGLB))
	js.Global().Set("inspectScene", js.FuncOf(inspectScene))
	select {}
}
