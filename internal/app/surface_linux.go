package app

import (
	"log/slog"
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/rajveermalviya/go-webgpu/wgpu"
)

const instanceBackends = wgpu.InstanceBackend_Vulkan

// CreateSurface creates a WebGPU surface from a GLFW window on X11
func CreateSurface(instance *wgpu.Instance, window *glfw.Window) *wgpu.Surface {
	display := glfw.GetX11Display()
	if display == nil {
		slog.Error("GetX11Display returned nil")
		return nil
	}

	surface := instance.CreateSurface(&wgpu.SurfaceDescriptor{
		Label: "MainSurface",
		XlibWindow: &wgpu.SurfaceDescriptorFromXlibWindow{
			Display: unsafe.Pointer(display),
			Window:  uint32(window.GetX11Window()),
		},
	})

	if surface == nil {
		slog.Error("CreateSurface returned nil")
	}

	return surface
}
