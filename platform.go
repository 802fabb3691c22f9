package softinput

import (
	"runtime"

	"github.com/agiangrant/softinput/internal/ffi"
)

// Platform represents the current operating system/platform
type Platform string

const (
	PlatformMacOS   Platform = "darwin"
	PlatformIOS     Platform = "ios"
	PlatformAndroid Platform = "android"
	PlatformLinux   Platform = "linux"
	PlatformWindows Platform = "windows"
	PlatformWeb     Platform = "js"
	PlatformUnknown Platform = "unknown"
)

// CurrentPlatform returns the platform the app is running on
func CurrentPlatform() Platform {
	return platformFor(runtime.GOOS)
}

func platformFor(goos string) Platform {
	switch goos {
	case "darwin":
		return PlatformMacOS
	case "ios":
		return PlatformIOS
	case "android":
		return PlatformAndroid
	case "linux":
		return PlatformLinux
	case "windows":
		return PlatformWindows
	case "js":
		return PlatformWeb
	default:
		return PlatformUnknown
	}
}

// IsMobile returns true if running on iOS or Android
func IsMobile() bool {
	return CurrentPlatform().IsMobile()
}

// IsMobile reports whether p is iOS or Android.
func (p Platform) IsMobile() bool {
	return p == PlatformIOS || p == PlatformAndroid
}

// HasPhysicalKeyboard returns true if the platform typically has a physical keyboard
func HasPhysicalKeyboard() bool {
	return !IsMobile()
}

// SupportsSoftInput reports whether the platform raises an on-screen
// keyboard and posts keyboard frame notifications.
func SupportsSoftInput() bool {
	return ffi.KeyboardNotificationsSupported()
}
