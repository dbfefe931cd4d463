package jsbridge

import (
	"github.com/dop251/goja"
	"github.com/specialistvlad/paintworklet/internal/renderctx"
	"github.com/specialistvlad/paintworklet/internal/script"
)

// bindSize exposes a paint size as an object with read-only width and
// height.
func (r *Runtime) bindSize(size script.PaintSize) *goja.Object {
	obj := r.vm.NewObject()
	_ = obj.DefineDataProperty("width", r.vm.ToValue(size.Width), goja.FLAG_FALSE, goja.FLAG_FALSE, goja.FLAG_TRUE)
	_ = obj.DefineDataProperty("height", r.vm.ToValue(size.Height), goja.FLAG_FALSE, goja.FLAG_FALSE, goja.FLAG_TRUE)
	return obj
}

// bindContext exposes a rendering context with the subset of the
// CanvasRenderingContext2D API that paint callbacks use.
func (r *Runtime) bindContext(ctx *renderctx.Context) *goja.Object {
	vm := r.vm
	obj := vm.NewObject()

	fillStyle := vm.ToValue("#000000")
	strokeStyle := vm.ToValue("#000000")

	// fillStyle and strokeStyle accept a CSS colour or a gradient.
	obj.DefineAccessorProperty("fillStyle", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return fillStyle
	}), vm.ToValue(func(call goja.FunctionCall) goja.Value {
		v := call.Argument(0)
		if g, ok := v.Export().(*renderctx.Gradient); ok {
			ctx.SetFillGradient(g)
			fillStyle = v
		} else if _, ok := renderctx.ParseColor(v.String()); ok {
			ctx.SetFillColor(v.String())
			fillStyle = v
		}
		return goja.Undefined()
	}), goja.FLAG_FALSE, goja.FLAG_TRUE)

	obj.DefineAccessorProperty("strokeStyle", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return strokeStyle
	}), vm.ToValue(func(call goja.FunctionCall) goja.Value {
		v := call.Argument(0)
		if g, ok := v.Export().(*renderctx.Gradient); ok {
			ctx.SetStrokeGradient(g)
			strokeStyle = v
		} else if _, ok := renderctx.ParseColor(v.String()); ok {
			ctx.SetStrokeColor(v.String())
			strokeStyle = v
		}
		return goja.Undefined()
	}), goja.FLAG_FALSE, goja.FLAG_TRUE)

	obj.DefineAccessorProperty("lineWidth", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(ctx.LineWidth())
	}), vm.ToValue(func(call goja.FunctionCall) goja.Value {
		ctx.SetLineWidth(call.Argument(0).ToFloat())
		return goja.Undefined()
	}), goja.FLAG_FALSE, goja.FLAG_TRUE)

	obj.Set("save", func(call goja.FunctionCall) goja.Value {
		ctx.Save()
		return goja.Undefined()
	})
	obj.Set("restore", func(call goja.FunctionCall) goja.Value {
		ctx.Restore()
		return goja.Undefined()
	})

	obj.Set("fillRect", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) >= 4 {
			x, y, w, h := floats4(call)
			r.check(ctx.FillRect(x, y, w, h))
		}
		return goja.Undefined()
	})
	obj.Set("strokeRect", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) >= 4 {
			x, y, w, h := floats4(call)
			r.check(ctx.StrokeRect(x, y, w, h))
		}
		return goja.Undefined()
	})
	obj.Set("clearRect", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) >= 4 {
			ctx.ClearRect(floats4(call))
		}
		return goja.Undefined()
	})

	obj.Set("beginPath", func(call goja.FunctionCall) goja.Value {
		ctx.BeginPath()
		return goja.Undefined()
	})
	obj.Set("closePath", func(call goja.FunctionCall) goja.Value {
		ctx.ClosePath()
		return goja.Undefined()
	})
	obj.Set("moveTo", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) >= 2 {
			ctx.MoveTo(call.Argument(0).ToFloat(), call.Argument(1).ToFloat())
		}
		return goja.Undefined()
	})
	obj.Set("lineTo", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) >= 2 {
			ctx.LineTo(call.Argument(0).ToFloat(), call.Argument(1).ToFloat())
		}
		return goja.Undefined()
	})
	obj.Set("quadraticCurveTo", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) >= 4 {
			ctx.QuadraticCurveTo(floats4(call))
		}
		return goja.Undefined()
	})
	obj.Set("bezierCurveTo", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) >= 6 {
			ctx.BezierCurveTo(
				call.Argument(0).ToFloat(), call.Argument(1).ToFloat(),
				call.Argument(2).ToFloat(), call.Argument(3).ToFloat(),
				call.Argument(4).ToFloat(), call.Argument(5).ToFloat(),
			)
		}
		return goja.Undefined()
	})
	// arc(x, y, radius, startAngle, endAngle, counterclockwise?)
	obj.Set("arc", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) >= 5 {
			ctx.Arc(
				call.Argument(0).ToFloat(), call.Argument(1).ToFloat(),
				call.Argument(2).ToFloat(),
				call.Argument(3).ToFloat(), call.Argument(4).ToFloat(),
				call.Argument(5).ToBoolean(),
			)
		}
		return goja.Undefined()
	})
	obj.Set("rect", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) >= 4 {
			ctx.Rect(floats4(call))
		}
		return goja.Undefined()
	})
	obj.Set("fill", func(call goja.FunctionCall) goja.Value {
		r.check(ctx.Fill())
		return goja.Undefined()
	})
	obj.Set("stroke", func(call goja.FunctionCall) goja.Value {
		r.check(ctx.Stroke())
		return goja.Undefined()
	})

	obj.Set("translate", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) >= 2 {
			ctx.Translate(call.Argument(0).ToFloat(), call.Argument(1).ToFloat())
		}
		return goja.Undefined()
	})
	obj.Set("scale", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) >= 2 {
			ctx.Scale(call.Argument(0).ToFloat(), call.Argument(1).ToFloat())
		}
		return goja.Undefined()
	})
	obj.Set("rotate", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) >= 1 {
			ctx.Rotate(call.Argument(0).ToFloat())
		}
		return goja.Undefined()
	})

	// Gradients are returned as wrapped Go values so that the style
	// setters can recognise them; addColorStop maps to AddColorStop.
	obj.Set("createLinearGradient", func(call goja.FunctionCall) goja.Value {
		x0, y0, x1, y1 := floats4(call)
		return vm.ToValue(renderctx.NewLinearGradient(x0, y0, x1, y1))
	})
	obj.Set("createRadialGradient", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(renderctx.NewRadialGradient(
			call.Argument(0).ToFloat(), call.Argument(1).ToFloat(), call.Argument(2).ToFloat(),
			call.Argument(3).ToFloat(), call.Argument(4).ToFloat(), call.Argument(5).ToFloat(),
		))
	})

	return obj
}

func floats4(call goja.FunctionCall) (float64, float64, float64, float64) {
	return call.Argument(0).ToFloat(), call.Argument(1).ToFloat(),
		call.Argument(2).ToFloat(), call.Argument(3).ToFloat()
}

// check throws err into the running script.
func (r *Runtime) check(err error) {
	if err != nil {
		panic(r.vm.NewGoError(err))
	}
}
