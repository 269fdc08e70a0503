package courtside

import (
	"fmt"
	"image"
	_ "image/png"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

type AssetId string

func makeAssetId() AssetId {
	return AssetId(uuid.NewString())
}

// ModelSource names where a model comes from: a .vox file, or a generator
// when Path is empty.
type ModelSource struct {
	Name       string
	Path       string
	Procedural func() VoxModel
	// VoxelSize is the world size of one voxel.
	VoxelSize float32
}

type ModelAsset struct {
	Id        AssetId
	Name      string
	Model     VoxModel
	Palette   VoxPalette
	VoxelSize float32
}

// HalfExtents is half the model's world-space bounding box.
func (m *ModelAsset) HalfExtents() mgl32.Vec3 {
	return mgl32.Vec3{
		float32(m.Model.SizeX) * m.VoxelSize / 2,
		float32(m.Model.SizeY) * m.VoxelSize / 2,
		float32(m.Model.SizeZ) * m.VoxelSize / 2,
	}
}

// Radius is the radius of the largest sphere that fits the bounding box.
func (m *ModelAsset) Radius() float32 {
	h := m.HalfExtents()
	r := h.X()
	if h.Y() < r {
		r = h.Y()
	}
	if h.Z() < r {
		r = h.Z()
	}
	return r
}

type ModelLoaded func(cmd *Commands, asset *ModelAsset, err error)
type ImageLoaded func(cmd *Commands, id AssetId, img image.Image, err error)

type loadResult struct {
	id    AssetId
	model bool
	asset *ModelAsset
	img   image.Image
	err   error

	onModel ModelLoaded
	onImage ImageLoaded
}

// AssetServer loads models and images on goroutines. Results are handed back
// on the main thread by the asset system, so callbacks may use Commands.
type AssetServer struct {
	models  map[AssetId]*ModelAsset
	images  map[AssetId]image.Image
	results chan loadResult
	pending int
}

type AssetServerModule struct{}

func NewAssetServer() *AssetServer {
	return &AssetServer{
		models:  make(map[AssetId]*ModelAsset),
		images:  make(map[AssetId]image.Image),
		results: make(chan loadResult, 64),
	}
}

func (AssetServerModule) Install(app *App, cmd *Commands) {
	app.addResources(NewAssetServer())
	app.UseSystem(
		System(assetLoadSystem).
			InStage(PreUpdate).
			RunAlways(),
	)
}

// LoadModelAsync starts loading src. done runs once, on the main thread,
// with the asset or the load error.
func (server *AssetServer) LoadModelAsync(src ModelSource, done ModelLoaded) AssetId {
	id := makeAssetId()
	server.pending++
	go func() {
		asset, err := loadModel(id, src)
		server.results <- loadResult{id: id, model: true, asset: asset, err: err, onModel: done}
	}()
	return id
}

func (server *AssetServer) LoadImageAsync(path string, done ImageLoaded) AssetId {
	id := makeAssetId()
	server.pending++
	go func() {
		img, err := loadImage(path)
		server.results <- loadResult{id: id, img: img, err: err, onImage: done}
	}()
	return id
}

// Pending is the number of loads whose callbacks have not run yet.
func (server *AssetServer) Pending() int {
	return server.pending
}

func (server *AssetServer) Model(id AssetId) (*ModelAsset, bool) {
	m, ok := server.models[id]
	return m, ok
}

func (server *AssetServer) Image(id AssetId) (image.Image, bool) {
	img, ok := server.images[id]
	return img, ok
}

func loadModel(id AssetId, src ModelSource) (*ModelAsset, error) {
	voxelSize := src.VoxelSize
	if voxelSize <= 0 {
		voxelSize = 0.1
	}
	asset := &ModelAsset{Id: id, Name: src.Name, VoxelSize: voxelSize, Palette: defaultPalette()}

	switch {
	case src.Path != "":
		vf, err := LoadVoxFile(src.Path)
		if err != nil {
			return nil, fmt.Errorf("loading model %s: %w", src.Name, err)
		}
		asset.Model = vf.Models[0]
		asset.Palette = vf.Palette
	case src.Procedural != nil:
		asset.Model = src.Procedural()
	default:
		return nil, fmt.Errorf("loading model %s: no path or generator", src.Name)
	}
	return asset, nil
}

func loadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return img, nil
}

// assetLoadSystem delivers finished loads without ever waiting on one.
func assetLoadSystem(cmd *Commands, server *AssetServer) {
	for {
		select {
		case res := <-server.results:
			server.deliver(cmd, res)
		default:
			return
		}
	}
}

func (server *AssetServer) deliver(cmd *Commands, res loadResult) {
	server.pending--
	if res.err != nil {
		cmd.Logger().Errorf("assets: %v", res.err)
	}

	if res.model {
		if res.err == nil {
			server.models[res.id] = res.asset
			cmd.Logger().Debugf("assets: model %s ready (%d voxels)", res.asset.Name, len(res.asset.Model.Voxels))
		}
		if res.onModel != nil {
			res.onModel(cmd, res.asset, res.err)
		}
	} else {
		if res.err == nil {
			server.images[res.id] = res.img
		}
		if res.onImage != nil {
			res.onImage(cmd, res.id, res.img, res.err)
		}
	}
}
