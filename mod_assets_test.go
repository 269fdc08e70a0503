package courtside

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(t *testing.T, cmd *Commands, server *AssetServer) {
	t.Helper()
	require.Eventually(t, func() bool {
		assetLoadSystem(cmd, server)
		return server.Pending() == 0
	}, 2*time.Second, time.Millisecond)
}

func TestAssetServer_LoadProceduralModel(t *testing.T) {
	cmd := newTestCommands()
	server := NewAssetServer()

	var got *ModelAsset
	calls := 0
	id := server.LoadModelAsync(ModelSource{
		Name:       "ball",
		Procedural: func() VoxModel { return SphereVoxModel(6, 1) },
		VoxelSize:  0.02,
	}, func(cmd *Commands, asset *ModelAsset, err error) {
		require.NoError(t, err)
		got = asset
		calls++
	})
	assert.Equal(t, 1, server.Pending())

	drain(t, cmd, server)

	require.NotNil(t, got)
	assert.Equal(t, 1, calls)
	assert.Equal(t, id, got.Id)
	assert.Equal(t, "ball", got.Name)
	assert.True(t, vecInDelta(mgl32.Vec3{0.13, 0.13, 0.13}, got.HalfExtents(), 1e-5))
	assert.InDelta(t, 0.13, got.Radius(), 1e-5)

	stored, ok := server.Model(id)
	require.True(t, ok)
	assert.Same(t, got, stored)
}

func TestAssetServer_LoadVoxModelFromFile(t *testing.T) {
	cmd := newTestCommands()
	server := NewAssetServer()

	path := filepath.Join(t.TempDir(), "hoop.vox")
	require.NoError(t, os.WriteFile(path, newVoxBuilder().size(4, 1, 4).xyzi(Voxel{0, 0, 0, 1}).buf.Bytes(), 0o644))

	var got *ModelAsset
	server.LoadModelAsync(ModelSource{Name: "hoop", Path: path}, func(cmd *Commands, asset *ModelAsset, err error) {
		require.NoError(t, err)
		got = asset
	})
	drain(t, cmd, server)

	require.NotNil(t, got)
	assert.Equal(t, float32(0.1), got.VoxelSize, "default voxel size")
	assert.Equal(t, uint32(4), got.Model.SizeX)
}

func TestAssetServer_ModelErrorReachesCallback(t *testing.T) {
	cmd := newTestCommands()
	server := NewAssetServer()

	var gotErr error
	id := server.LoadModelAsync(ModelSource{Name: "missing", Path: filepath.Join(t.TempDir(), "nope.vox")}, func(cmd *Commands, asset *ModelAsset, err error) {
		gotErr = err
		assert.Nil(t, asset)
	})
	drain(t, cmd, server)

	require.Error(t, gotErr)
	assert.ErrorIs(t, gotErr, os.ErrNotExist)
	_, ok := server.Model(id)
	assert.False(t, ok)

	server.LoadModelAsync(ModelSource{Name: "empty"}, func(cmd *Commands, asset *ModelAsset, err error) {
		gotErr = err
	})
	drain(t, cmd, server)
	assert.Error(t, gotErr)
}

func TestAssetServer_LoadImage(t *testing.T) {
	cmd := newTestCommands()
	server := NewAssetServer()

	img := image.NewRGBA(image.Rect(0, 0, 8, 4))
	img.Set(1, 1, color.RGBA{255, 0, 0, 255})
	path := filepath.Join(t.TempDir(), "reach.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())

	var got image.Image
	id := server.LoadImageAsync(path, func(cmd *Commands, id AssetId, loaded image.Image, err error) {
		require.NoError(t, err)
		got = loaded
	})
	drain(t, cmd, server)

	require.NotNil(t, got)
	assert.Equal(t, image.Pt(8, 4), got.Bounds().Size())
	stored, ok := server.Image(id)
	require.True(t, ok)
	assert.Equal(t, got, stored)

	require.NoError(t, os.WriteFile(path, []byte("not a png"), 0o644))
	var gotErr error
	server.LoadImageAsync(path, func(cmd *Commands, id AssetId, loaded image.Image, err error) {
		gotErr = err
	})
	drain(t, cmd, server)
	assert.Error(t, gotErr)
}
