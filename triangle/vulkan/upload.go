package main

import (
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"

	"github.com/mygameengine/triangle/scene"
)

// uploadVertices copies the triangle into device-local memory through a
// host-visible staging buffer. The copy is submitted once and waited on, so
// the staging buffer is gone before the first frame.
func (app *TriangleApplication) uploadVertices() error {
	data, err := scene.Bytes(scene.Triangle())
	if err != nil {
		return err
	}
	if err := scene.CheckBufferSize(len(data), scene.PositionLayout, scene.VertexCount); err != nil {
		return err
	}
	size := len(data)

	staging, stagingMemory, err := app.allocateBuffer(size, core1_0.BufferUsageTransferSrc,
		core1_0.MemoryPropertyHostVisible|core1_0.MemoryPropertyHostCoherent)
	if err != nil {
		return errors.Wrap(err, "staging buffer")
	}
	defer app.deviceDriver.FreeMemory(stagingMemory, nil)
	defer app.deviceDriver.DestroyBuffer(staging, nil)

	mapped, _, err := app.deviceDriver.MapMemory(stagingMemory, 0, size, 0)
	if err != nil {
		return errors.Wrap(err, "map staging memory")
	}
	copy(unsafe.Slice((*byte)(mapped), size), data)
	app.deviceDriver.UnmapMemory(stagingMemory)

	app.vertexBuffer, app.vertexMemory, err = app.allocateBuffer(size,
		core1_0.BufferUsageTransferDst|core1_0.BufferUsageVertexBuffer, core1_0.MemoryPropertyDeviceLocal)
	if err != nil {
		return errors.Wrap(err, "vertex buffer")
	}

	commands, _, err := app.deviceDriver.AllocateCommandBuffers(core1_0.CommandBufferAllocateInfo{
		CommandPool:        app.commandPool,
		Level:              core1_0.CommandBufferLevelPrimary,
		CommandBufferCount: 1,
	})
	if err != nil {
		return errors.Wrap(err, "allocate upload commands")
	}
	defer app.deviceDriver.FreeCommandBuffers(commands...)

	cmd := commands[0]
	if _, err := app.deviceDriver.BeginCommandBuffer(cmd, core1_0.CommandBufferBeginInfo{Flags: core1_0.CommandBufferUsageOneTimeSubmit}); err != nil {
		return errors.Wrap(err, "begin upload commands")
	}
	if err := app.deviceDriver.CmdCopyBuffer(cmd, staging, app.vertexBuffer, core1_0.BufferCopy{Size: size}); err != nil {
		return errors.Wrap(err, "record vertex copy")
	}
	if _, err := app.deviceDriver.EndCommandBuffer(cmd); err != nil {
		return errors.Wrap(err, "end upload commands")
	}

	if _, err := app.deviceDriver.QueueSubmit(app.graphicsQueue, nil, core1_0.SubmitInfo{CommandBuffers: commands}); err != nil {
		return errors.Wrap(err, "submit vertex upload")
	}
	_, err = app.deviceDriver.QueueWaitIdle(app.graphicsQueue)
	return errors.Wrap(err, "wait for vertex upload")
}

// allocateBuffer creates a buffer backed by its own memory allocation. On
// failure nothing is left allocated.
func (app *TriangleApplication) allocateBuffer(size int, usage core1_0.BufferUsageFlags, want core1_0.MemoryPropertyFlags) (core1_0.Buffer, core1_0.DeviceMemory, error) {
	buffer, _, err := app.deviceDriver.CreateBuffer(nil, core1_0.BufferCreateInfo{
		Size:        size,
		Usage:       usage,
		SharingMode: core1_0.SharingModeExclusive,
	})
	if err != nil {
		return core1_0.Buffer{}, core1_0.DeviceMemory{}, errors.Wrap(err, "create buffer")
	}

	requirements := app.deviceDriver.GetBufferMemoryRequirements(buffer)
	typeIndex, err := app.memoryTypeIndex(requirements.MemoryTypeBits, want)
	if err != nil {
		app.deviceDriver.DestroyBuffer(buffer, nil)
		return core1_0.Buffer{}, core1_0.DeviceMemory{}, err
	}

	memory, _, err := app.deviceDriver.AllocateMemory(nil, core1_0.MemoryAllocateInfo{
		AllocationSize:  requirements.Size,
		MemoryTypeIndex: typeIndex,
	})
	if err != nil {
		app.deviceDriver.DestroyBuffer(buffer, nil)
		return core1_0.Buffer{}, core1_0.DeviceMemory{}, errors.Wrap(err, "allocate buffer memory")
	}

	if _, err := app.deviceDriver.BindBufferMemory(buffer, memory, 0); err != nil {
		app.deviceDriver.DestroyBuffer(buffer, nil)
		app.deviceDriver.FreeMemory(memory, nil)
		return core1_0.Buffer{}, core1_0.DeviceMemory{}, errors.Wrap(err, "bind buffer memory")
	}

	return buffer, memory, nil
}

// memoryTypeIndex returns the first memory type allowed by typeBits that has
// every property in want.
func (app *TriangleApplication) memoryTypeIndex(typeBits uint32, want core1_0.MemoryPropertyFlags) (int, error) {
	properties := app.instanceDriver.GetPhysicalDeviceMemoryProperties(app.physicalDevice)
	for idx, memoryType := range properties.MemoryTypes {
		if typeBits&(1<<uint(idx)) == 0 {
			continue
		}
		if memoryType.PropertyFlags&want == want {
			return idx, nil
		}
	}

	return 0, errors.Newf("no memory type in mask %#x has flags %s", typeBits, want)
}
