package main

import (
	"log"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/common"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/ext_debug_utils"
	"github.com/vkngwrapper/extensions/v3/khr_portability_enumeration"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
	vkng_sdl2 "github.com/vkngwrapper/integrations/sdl2/v3"
)

func (app *TriangleApplication) createInstance() error {
	info := core1_0.InstanceCreateInfo{
		ApplicationName:    app.config.Title,
		ApplicationVersion: common.CreateVersion(1, 0, 0),
		EngineName:         "My Game Engine",
		EngineVersion:      common.CreateVersion(1, 0, 0),
		APIVersion:         common.Vulkan1_2,
	}

	var err error
	info.EnabledExtensionNames, info.Flags, err = app.instanceExtensions()
	if err != nil {
		return err
	}

	if app.config.Validation {
		info.EnabledLayerNames, err = app.instanceLayers()
		if err != nil {
			return err
		}
		// Reports problems in instance creation itself
		info.Next = app.debugMessengerOptions()
	}

	app.instanceDriver, _, err = app.globalDriver.CreateInstance(nil, info)
	return errors.Wrap(err, "create instance")
}

// instanceExtensions lists what SDL needs to make a surface, plus debug
// utils under validation and portability enumeration where the loader has it.
func (app *TriangleApplication) instanceExtensions() ([]string, core1_0.InstanceCreateFlags, error) {
	available, _, err := app.globalDriver.AvailableExtensions()
	if err != nil {
		return nil, 0, errors.Wrap(err, "list instance extensions")
	}

	var flags core1_0.InstanceCreateFlags
	required := app.window.VulkanGetInstanceExtensions()
	if app.config.Validation {
		required = append(required, ext_debug_utils.ExtensionName)
	}
	for _, name := range required {
		if _, ok := available[name]; !ok {
			return nil, 0, errors.Newf("missing instance extension %s", name)
		}
	}

	if _, ok := available[khr_portability_enumeration.ExtensionName]; ok {
		required = append(required, khr_portability_enumeration.ExtensionName)
		flags |= khr_portability_enumeration.InstanceCreateEnumeratePortability
	}

	return required, flags, nil
}

func (app *TriangleApplication) instanceLayers() ([]string, error) {
	available, _, err := app.globalDriver.AvailableLayers()
	if err != nil {
		return nil, errors.Wrap(err, "list instance layers")
	}

	for _, layer := range validationLayers {
		if _, ok := available[layer]; !ok {
			return nil, errors.Newf("validation layer %s is not available, install the LunarG Vulkan SDK", layer)
		}
	}
	return validationLayers, nil
}

func (app *TriangleApplication) debugMessengerOptions() ext_debug_utils.DebugUtilsMessengerCreateInfo {
	return ext_debug_utils.DebugUtilsMessengerCreateInfo{
		MessageSeverity: ext_debug_utils.SeverityError | ext_debug_utils.SeverityWarning,
		MessageType:     ext_debug_utils.TypeGeneral | ext_debug_utils.TypeValidation | ext_debug_utils.TypePerformance,
		UserCallback:    logDebug,
	}
}

func (app *TriangleApplication) setupDebugMessenger() error {
	if !app.config.Validation {
		return nil
	}

	var err error
	app.debugDriver = ext_debug_utils.CreateExtensionDriverFromCoreDriver(app.instanceDriver)
	app.debugMessenger, _, err = app.debugDriver.CreateDebugUtilsMessenger(nil, app.debugMessengerOptions())
	return errors.Wrap(err, "create debug messenger")
}

func (app *TriangleApplication) createSurface() error {
	app.surfaceDriver = khr_surface.CreateExtensionDriverFromCoreDriver(app.instanceDriver)

	var err error
	app.surface, err = vkng_sdl2.CreateSurface(app.instanceDriver.Instance(), app.surfaceDriver, app.window)
	return errors.Wrap(err, "create surface")
}

func logDebug(msgType ext_debug_utils.DebugUtilsMessageTypeFlags, severity ext_debug_utils.DebugUtilsMessageSeverityFlags, data *ext_debug_utils.DebugUtilsMessengerCallbackData) bool {
	log.Printf("vulkan [%s %s]: %s", severity, msgType, data.Message)
	return false
}
