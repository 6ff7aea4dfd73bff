package winget

// Package represents one row of winget's tabular search or list output.
type Package struct {
	Name    string `json:"name"`
	ID      string `json:"id"`
	Version string `json:"version"`
	Source  string `json:"source"`
}

const (
	// DefaultSource is the community repository winget queries by default.
	DefaultSource = "winget"
	// StoreSource is the Microsoft Store channel.
	StoreSource = "msstore"
)

// Exit codes reported by winget (HRESULTs, kept as unsigned values).
const (
	CodeInvalidArguments      int64 = 0x8A150002
	CodeNoPackageFound        int64 = 0x8A150014
	CodeMultiplePackagesFound int64 = 0x8A150016
	CodeCommandRequiresAdmin  int64 = 0x8A150019

	// CodeElevationRequired is ERROR_ELEVATION_REQUIRED wrapped as an HRESULT.
	CodeElevationRequired int64 = 0x800702E4
	// CodeElevationDenied is the elevation failure code older installers surface.
	CodeElevationDenied int64 = 2147943458
)
