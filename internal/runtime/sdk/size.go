package sdk

// AdSize is the SDK's closed set of banner sizes.
type AdSize int

const (
	SizeMREC AdSize = iota
	SizeDefault
	SizeBanner
	SizeBannerShort
	SizeBannerLeaderboard
)

type sizeInfo struct {
	name          string
	width, height int
}

var sizes = map[AdSize]sizeInfo{
	SizeMREC:              {"mrec", 300, 250},
	SizeDefault:           {"default", -1, -1},
	SizeBanner:            {"banner", 320, 50},
	SizeBannerShort:       {"banner_short", 300, 50},
	SizeBannerLeaderboard: {"banner_leaderboard", 728, 90},
}

// SizeFromName resolves a size by name. Unknown names resolve to SizeDefault.
func SizeFromName(name string) AdSize {
	for size, info := range sizes {
		if info.name == name {
			return size
		}
	}
	return SizeDefault
}

func (s AdSize) Name() string { return s.info().name }
func (s AdSize) Width() int   { return s.info().width }
func (s AdSize) Height() int  { return s.info().height }
func (s AdSize) String() string {
	return s.Name()
}

// IsBanner reports whether the size is one of the fixed banner formats.
func (s AdSize) IsBanner() bool {
	return s == SizeBanner || s == SizeBannerShort || s == SizeBannerLeaderboard
}

func (s AdSize) info() sizeInfo {
	if info, ok := sizes[s]; ok {
		return info
	}
	return sizes[SizeDefault]
}
