package main

import (
	"log"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_portability_subset"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"
)

// queueFamilies is resolved once when the device is picked and reused for
// the device, the swapchain sharing mode and the command pool.
type queueFamilies struct {
	graphics int
	present  int
}

func (f queueFamilies) shared() bool {
	return f.graphics == f.present
}

// distinct lists each family once, graphics first.
func (f queueFamilies) distinct() []int {
	if f.shared() {
		return []int{f.graphics}
	}
	return []int{f.graphics, f.present}
}

func (app *TriangleApplication) pickPhysicalDevice() error {
	physicalDevices, _, err := app.instanceDriver.EnumeratePhysicalDevices()
	if err != nil {
		return errors.Wrap(err, "enumerate physical devices")
	}

	for _, device := range physicalDevices {
		families, extensions, ok := app.deviceFit(device)
		if !ok {
			continue
		}

		app.physicalDevice = device
		app.families = families
		app.deviceExtensions = extensions
		break
	}

	if !app.physicalDevice.Initialized() {
		return errors.New("failed to find a suitable GPU")
	}

	properties, err := app.instanceDriver.GetPhysicalDeviceProperties(app.physicalDevice)
	if err != nil {
		return errors.Wrap(err, "read device properties")
	}
	log.Printf("Vulkan version: %s (%s)", properties.APIVersion, properties.DeviceName)

	return nil
}

// deviceFit checks that a device can draw to and present on our surface. It
// returns the queue families to use and the device extensions to enable.
func (app *TriangleApplication) deviceFit(device core1_0.PhysicalDevice) (queueFamilies, []string, bool) {
	available, _, err := app.instanceDriver.EnumerateDeviceExtensionProperties(device)
	if err != nil {
		return queueFamilies{}, nil, false
	}
	if _, ok := available[khr_swapchain.ExtensionName]; !ok {
		return queueFamilies{}, nil, false
	}

	extensions := []string{khr_swapchain.ExtensionName}
	// Required on MoltenVK
	if _, ok := available[khr_portability_subset.ExtensionName]; ok {
		extensions = append(extensions, khr_portability_subset.ExtensionName)
	}

	support, err := app.surfaceSupport(device)
	if err != nil || len(support.formats) == 0 || len(support.presentModes) == 0 {
		return queueFamilies{}, nil, false
	}

	families, ok, err := app.findQueueFamilies(device)
	if err != nil || !ok {
		return queueFamilies{}, nil, false
	}

	return families, extensions, true
}

// findQueueFamilies prefers a single family that can both draw and present.
// Failing that it takes the first family able to do each.
func (app *TriangleApplication) findQueueFamilies(device core1_0.PhysicalDevice) (queueFamilies, bool, error) {
	found := queueFamilies{graphics: -1, present: -1}

	for idx, family := range app.instanceDriver.GetPhysicalDeviceQueueFamilyProperties(device) {
		canPresent, _, err := app.surfaceDriver.GetPhysicalDeviceSurfaceSupport(app.surface, device, idx)
		if err != nil {
			return found, false, errors.Wrapf(err, "query present support on queue family %d", idx)
		}
		canDraw := family.QueueFlags&core1_0.QueueGraphics != 0

		if canDraw && canPresent {
			return queueFamilies{graphics: idx, present: idx}, true, nil
		}
		if canDraw && found.graphics < 0 {
			found.graphics = idx
		}
		if canPresent && found.present < 0 {
			found.present = idx
		}
	}

	return found, found.graphics >= 0 && found.present >= 0, nil
}

func (app *TriangleApplication) createLogicalDevice() error {
	var queueInfos []core1_0.DeviceQueueCreateInfo
	for _, family := range app.families.distinct() {
		queueInfos = append(queueInfos, core1_0.DeviceQueueCreateInfo{
			QueueFamilyIndex: family,
			QueuePriorities:  []float32{1.0},
		})
	}

	var err error
	app.deviceDriver, _, err = app.instanceDriver.CreateDevice(app.physicalDevice, nil, core1_0.DeviceCreateInfo{
		QueueCreateInfos:      queueInfos,
		EnabledFeatures:       &core1_0.PhysicalDeviceFeatures{},
		EnabledExtensionNames: app.deviceExtensions,
	})
	if err != nil {
		return errors.Wrap(err, "create logical device")
	}

	app.graphicsQueue = app.deviceDriver.GetQueue(app.families.graphics, 0)
	app.presentQueue = app.deviceDriver.GetQueue(app.families.present, 0)
	app.swapchainDriver = khr_swapchain.CreateExtensionDriverFromCoreDriver(app.deviceDriver)

	pool, _, err := app.deviceDriver.CreateCommandPool(nil, core1_0.CommandPoolCreateInfo{
		QueueFamilyIndex: app.families.graphics,
	})
	if err != nil {
		return errors.Wrap(err, "create command pool")
	}
	app.commandPool = pool

	return nil
}
