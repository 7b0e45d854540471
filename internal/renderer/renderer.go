package renderer

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"sync"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/rajveermalviya/go-webgpu/wgpu"

	"guidraw/pkg/drawlist"
	"guidraw/pkg/stage"
)

// whiteTexture is the reserved handle for untextured drawing. Its
// texture is a small solid white image, so shapes and text can share a
// pipeline with image draws.
const whiteTexture drawlist.TextureID = 1

// Texture holds the GPU resources for one registered image.
type Texture struct {
	Texture *wgpu.Texture
	View    *wgpu.TextureView
}

// Uniforms matches the shader's uniform block.
type Uniforms struct {
	Projection mgl32.Mat4
}

// Renderer draws lists through WebGPU.
type Renderer struct {
	device          *wgpu.Device
	queue           *wgpu.Queue
	surface         *wgpu.Surface
	adapter         *wgpu.Adapter
	swapChain       *wgpu.SwapChain
	swapChainFormat wgpu.TextureFormat
	pipeline        *wgpu.RenderPipeline
	sampler         *wgpu.Sampler
	bindGroupLayout *wgpu.BindGroupLayout

	textures   map[drawlist.TextureID]*Texture
	nextID     drawlist.TextureID
	texturesMu sync.RWMutex

	clear wgpu.Color

	width  uint32
	height uint32
}

// NewRenderer creates a WebGPU renderer on an already configured device
// and surface.
func NewRenderer(adapter *wgpu.Adapter, device *wgpu.Device, queue *wgpu.Queue, surface *wgpu.Surface, width, height uint32) (*Renderer, error) {
	r := &Renderer{
		adapter:  adapter,
		device:   device,
		queue:    queue,
		surface:  surface,
		width:    width,
		height:   height,
		textures: make(map[drawlist.TextureID]*Texture),
		nextID:   whiteTexture + 1,
		clear:    wgpu.Color{R: 0.15, G: 0.16, B: 0.18, A: 1.0},
	}

	if err := r.init(); err != nil {
		return nil, err
	}

	return r, nil
}

func (r *Renderer) init() error {
	// Get preferred format
	r.swapChainFormat = r.surface.GetPreferredFormat(r.adapter)

	// Create swap chain
	var err error
	r.swapChain, err = r.device.CreateSwapChain(r.surface, &wgpu.SwapChainDescriptor{
		Usage:       wgpu.TextureUsage_RenderAttachment,
		Format:      r.swapChainFormat,
		Width:       r.width,
		Height:      r.height,
		PresentMode: wgpu.PresentMode_Fifo,
	})
	if err != nil {
		return fmt.Errorf("swap chain creation failed: %w", err)
	}

	shader, err := r.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "ui_shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: UIShader},
	})
	if err != nil {
		return fmt.Errorf("shader creation failed: %w", err)
	}
	defer shader.Release()

	// Create sampler
	r.sampler, err = r.device.CreateSampler(&wgpu.SamplerDescriptor{
		AddressModeU:   wgpu.AddressMode_ClampToEdge,
		AddressModeV:   wgpu.AddressMode_ClampToEdge,
		AddressModeW:   wgpu.AddressMode_ClampToEdge,
		MagFilter:      wgpu.FilterMode_Linear,
		MinFilter:      wgpu.FilterMode_Linear,
		MipmapFilter:   wgpu.MipmapFilterMode_Nearest,
		MaxAnisotrophy: 1,
	})
	if err != nil {
		return fmt.Errorf("sampler creation failed: %w", err)
	}

	// Create bind group layout
	r.bindGroupLayout, err = r.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "ui_bind_group_layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStage_Vertex,
				Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingType_Uniform},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStage_Fragment,
				Sampler:    wgpu.SamplerBindingLayout{Type: wgpu.SamplerBindingType_Filtering},
			},
			{
				Binding:    2,
				Visibility: wgpu.ShaderStage_Fragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleType_Float,
					ViewDimension: wgpu.TextureViewDimension_2D,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("bind group layout creation failed: %w", err)
	}

	// Create pipeline layout
	pipelineLayout, err := r.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "ui_pipeline_layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{r.bindGroupLayout},
	})
	if err != nil {
		return fmt.Errorf("pipeline layout creation failed: %w", err)
	}
	defer pipelineLayout.Release()

	// Create render pipeline. Straight-alpha blending matches the draw
	// list's unpremultiplied vertex colors.
	r.pipeline, err = r.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "ui_pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{{
				ArrayStride: uint64(drawlist.VertexSize),
				StepMode:    wgpu.VertexStepMode_Vertex,
				Attributes:  vertexAttributes(),
			}},
		},
		Fragment: &wgpu.FragmentState{
			Module:     shader,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format: r.swapChainFormat,
				Blend: &wgpu.BlendState{
					Color: wgpu.BlendComponent{
						SrcFactor: wgpu.BlendFactor_SrcAlpha,
						DstFactor: wgpu.BlendFactor_OneMinusSrcAlpha,
						Operation: wgpu.BlendOperation_Add,
					},
					Alpha: wgpu.BlendComponent{
						SrcFactor: wgpu.BlendFactor_One,
						DstFactor: wgpu.BlendFactor_OneMinusSrcAlpha,
						Operation: wgpu.BlendOperation_Add,
					},
				},
				WriteMask: wgpu.ColorWriteMask_All,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology: wgpu.PrimitiveTopology_TriangleList,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("pipeline creation failed: %w", err)
	}

	if err := r.createWhiteTexture(); err != nil {
		return fmt.Errorf("white texture creation failed: %w", err)
	}

	return nil
}

// vertexAttributes derives the pipeline's vertex attributes from the
// shared draw list layout. Shader locations number the attributes in
// layout order, matching the WGSL vertex inputs.
func vertexAttributes() []wgpu.VertexAttribute {
	layout := drawlist.Layout()
	attrs := make([]wgpu.VertexAttribute, len(layout))
	for i, el := range layout {
		attrs[i] = wgpu.VertexAttribute{
			Format:         vertexFormat(el.Format),
			Offset:         uint64(el.Offset),
			ShaderLocation: uint32(el.Attrib),
		}
	}
	return attrs
}

func vertexFormat(f drawlist.Format) wgpu.VertexFormat {
	if f == drawlist.FormatUnorm8x4 {
		return wgpu.VertexFormat_Unorm8x4
	}
	return wgpu.VertexFormat_Float32x2
}

func (r *Renderer) createWhiteTexture() error {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	tex, err := r.createTexture(img)
	if err != nil {
		return err
	}

	r.texturesMu.Lock()
	r.textures[whiteTexture] = tex
	r.texturesMu.Unlock()
	return nil
}

func (r *Renderer) createTexture(img *image.RGBA) (*Texture, error) {
	texture, err := r.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "ui_texture",
		Size: wgpu.Extent3D{
			Width:              uint32(img.Bounds().Dx()),
			Height:             uint32(img.Bounds().Dy()),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension_2D,
		Format:        wgpu.TextureFormat_RGBA8Unorm,
		Usage:         wgpu.TextureUsage_TextureBinding | wgpu.TextureUsage_CopyDst,
	})
	if err != nil {
		return nil, err
	}

	r.queue.WriteTexture(
		&wgpu.ImageCopyTexture{Texture: texture, MipLevel: 0, Origin: wgpu.Origin3D{}, Aspect: wgpu.TextureAspect_All},
		img.Pix,
		&wgpu.TextureDataLayout{Offset: 0, BytesPerRow: uint32(img.Stride), RowsPerImage: uint32(img.Bounds().Dy())},
		&wgpu.Extent3D{Width: uint32(img.Bounds().Dx()), Height: uint32(img.Bounds().Dy()), DepthOrArrayLayers: 1},
	)

	view, err := texture.CreateView(&wgpu.TextureViewDescriptor{
		Format:          wgpu.TextureFormat_RGBA8Unorm,
		Dimension:       wgpu.TextureViewDimension_2D,
		BaseMipLevel:    0,
		MipLevelCount:   1,
		BaseArrayLayer:  0,
		ArrayLayerCount: 1,
		Aspect:          wgpu.TextureAspect_All,
	})
	if err != nil {
		texture.Release()
		return nil, err
	}

	return &Texture{Texture: texture, View: view}, nil
}

// RegisterImage uploads an RGBA image and returns its draw list handle.
func (r *Renderer) RegisterImage(img *image.RGBA) (drawlist.TextureID, error) {
	tex, err := r.createTexture(img)
	if err != nil {
		return 0, err
	}

	r.texturesMu.Lock()
	id := r.nextID
	r.nextID++
	r.textures[id] = tex
	r.texturesMu.Unlock()

	return id, nil
}

// NullTexture returns the binding draw lists need for untextured shapes.
func (r *Renderer) NullTexture() drawlist.NullTexture {
	return drawlist.NullTexture{Texture: whiteTexture, UV: [2]float32{0.5, 0.5}}
}

// HasTexture reports whether a handle is registered.
func (r *Renderer) HasTexture(id drawlist.TextureID) bool {
	r.texturesMu.RLock()
	defer r.texturesMu.RUnlock()
	_, ok := r.textures[id]
	return ok
}

func (r *Renderer) textureView(id drawlist.TextureID) *wgpu.TextureView {
	r.texturesMu.RLock()
	defer r.texturesMu.RUnlock()
	if tex, ok := r.textures[id]; ok {
		return tex.View
	}
	return r.textures[whiteTexture].View
}

// Render draws one frame from the list and presents it.
func (r *Renderer) Render(list *drawlist.List, vp stage.Viewport) error {
	view, err := r.swapChain.GetCurrentTextureView()
	if err != nil {
		return err
	}
	defer view.Release()

	encoder, err := r.device.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{})
	if err != nil {
		return err
	}
	defer encoder.Release()

	var bindGroups []*wgpu.BindGroup
	defer func() {
		for _, bg := range bindGroups {
			bg.Release()
		}
	}()

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOp_Clear,
			StoreOp:    wgpu.StoreOp_Store,
			ClearValue: r.clear,
		}},
	})

	vertices := list.Vertices()
	indices := list.Indices()
	if len(vertices) > 0 && len(indices) > 0 {
		pass.SetPipeline(r.pipeline)

		vertexBuffer, err := r.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
			Label:    "ui_vertex_buffer",
			Contents: wgpu.ToBytes(vertices),
			Usage:    wgpu.BufferUsage_Vertex,
		})
		if err != nil {
			return err
		}
		defer vertexBuffer.Release()

		// Buffer sizes must be 4 byte aligned; an odd index count gets one
		// padding index.
		if len(indices)%2 != 0 {
			indices = append(indices[:len(indices):len(indices)], 0)
		}
		indexBuffer, err := r.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
			Label:    "ui_index_buffer",
			Contents: wgpu.ToBytes(indices),
			Usage:    wgpu.BufferUsage_Index,
		})
		if err != nil {
			return err
		}
		defer indexBuffer.Release()

		uniforms := Uniforms{Projection: vp.Ortho()}
		uniformBuffer, err := r.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
			Label:    "ui_uniforms",
			Contents: wgpu.ToBytes([]Uniforms{uniforms}),
			Usage:    wgpu.BufferUsage_Uniform,
		})
		if err != nil {
			return err
		}
		defer uniformBuffer.Release()

		pass.SetVertexBuffer(0, vertexBuffer, 0, wgpu.WholeSize)
		pass.SetIndexBuffer(indexBuffer, wgpu.IndexFormat_Uint16, 0, wgpu.WholeSize)

		offset := 0
		for _, cmd := range list.Commands() {
			if cmd.ElemCount < 1 {
				continue
			}
			first := offset
			offset += cmd.ElemCount

			sx, sy, sw, sh := vp.ScissorTopLeft(cmd.Clip.X, cmd.Clip.Y, cmd.Clip.W, cmd.Clip.H)
			if sw == 0 || sh == 0 {
				continue
			}
			pass.SetScissorRect(sx, sy, sw, sh)

			// Bind groups are immutable, so each texture switch gets a
			// temporary one for this frame.
			bindGroup, err := r.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
				Label:  "ui_bind_group",
				Layout: r.bindGroupLayout,
				Entries: []wgpu.BindGroupEntry{
					{Binding: 0, Buffer: uniformBuffer, Size: uint64(unsafe.Sizeof(Uniforms{}))},
					{Binding: 1, Sampler: r.sampler},
					{Binding: 2, TextureView: r.textureView(cmd.Texture)},
				},
			})
			if err != nil {
				return err
			}
			bindGroups = append(bindGroups, bindGroup)

			pass.SetBindGroup(0, bindGroup, nil)
			pass.DrawIndexed(uint32(cmd.ElemCount), 1, uint32(first), 0, 0)
		}
	}

	pass.End()

	cmdBuffer, err := encoder.Finish(&wgpu.CommandBufferDescriptor{})
	if err != nil {
		return err
	}
	defer cmdBuffer.Release()

	r.queue.Submit(cmdBuffer)
	r.swapChain.Present()

	return nil
}

// Resize handles window resize
func (r *Renderer) Resize(width, height uint32) {
	if width == 0 || height == 0 {
		return
	}
	r.width = width
	r.height = height

	if r.swapChain != nil {
		r.swapChain.Release()
	}

	var err error
	r.swapChain, err = r.device.CreateSwapChain(r.surface, &wgpu.SwapChainDescriptor{
		Usage:       wgpu.TextureUsage_RenderAttachment,
		Format:      r.swapChainFormat,
		Width:       width,
		Height:      height,
		PresentMode: wgpu.PresentMode_Fifo,
	})
	if err != nil {
		slog.Error("swap chain recreation failed", "error", err)
	}
}

// Release frees all GPU resources
func (r *Renderer) Release() {
	r.texturesMu.Lock()
	for id, tex := range r.textures {
		tex.View.Release()
		tex.Texture.Release()
		delete(r.textures, id)
	}
	r.texturesMu.Unlock()

	r.bindGroupLayout.Release()
	r.pipeline.Release()
	r.sampler.Release()
	if r.swapChain != nil {
		r.swapChain.Release()
	}
}
