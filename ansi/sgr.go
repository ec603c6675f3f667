package ansi

// Rgb is a 24 bit color. It implements color.Color.
type Rgb struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// RGBA implements color.Color.
func (c Rgb) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	return r, g, b, 0xffff
}

// SgrKind identifies a Select Graphic Rendition code.
type SgrKind int

const (
	SgrReset SgrKind = iota
	SgrUnderline
	SgrUnderlineOff
	SgrCrossedOut
	SgrNotCrossedOut
	SgrTextColor
	SgrDefaultTextColor
	SgrBackgroundColor
	SgrDefaultBackgroundColor
)

var sgrNames = map[SgrKind]string{
	SgrReset:                  "reset",
	SgrUnderline:              "underline",
	SgrUnderlineOff:           "underline-off",
	SgrCrossedOut:             "crossed-out",
	SgrNotCrossedOut:          "not-crossed-out",
	SgrTextColor:              "text-color",
	SgrDefaultTextColor:       "default-text-color",
	SgrBackgroundColor:        "background-color",
	SgrDefaultBackgroundColor: "default-background-color",
}

func (k SgrKind) String() string {
	if name, ok := sgrNames[k]; ok {
		return name
	}
	return "unknown"
}

// MarshalText keeps debug JSON readable.
func (k SgrKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Sgr is a decoded style change. Color is only meaningful for the two color
// kinds.
type Sgr struct {
	Kind  SgrKind `json:"kind"`
	Color Rgb     `json:"color"`
}

// Windows "Campbell" console palette: 8 standard colors then 8 bright ones.
var palette = [16]Rgb{
	{12, 12, 12},
	{197, 15, 31},
	{19, 161, 14},
	{193, 156, 0},
	{0, 55, 218},
	{136, 23, 152},
	{58, 150, 221},
	{204, 204, 204},
	{118, 118, 118},
	{231, 72, 86},
	{22, 198, 12},
	{249, 241, 165},
	{59, 120, 255},
	{180, 0, 158},
	{97, 214, 214},
	{242, 242, 242},
}

var cubeLevels = [6]uint8{0, 95, 135, 175, 215, 255}

// StandardColor returns the 256-color palette entry for idx.
func StandardColor(idx uint8) Rgb {
	switch {
	case idx < 16:
		return palette[idx]
	case idx < 232:
		i := idx - 16
		return Rgb{cubeLevels[i/36], cubeLevels[(i/6)%6], cubeLevels[i%6]}
	default:
		v := 8 + (idx-232)*10
		return Rgb{v, v, v}
	}
}

// ParseSgr decodes every code in an SGR parameter list. Unknown codes are
// skipped; a truncated extended color ends decoding.
func ParseSgr(params []int) []Sgr {
	if len(params) == 0 {
		return []Sgr{{Kind: SgrReset}}
	}
	var out []Sgr
	for i := 0; i < len(params); i++ {
		code := params[i]
		switch {
		case code == 0:
			out = append(out, Sgr{Kind: SgrReset})
		case code == 4:
			out = append(out, Sgr{Kind: SgrUnderline})
		case code == 24:
			out = append(out, Sgr{Kind: SgrUnderlineOff})
		case code == 9:
			out = append(out, Sgr{Kind: SgrCrossedOut})
		case code == 29:
			out = append(out, Sgr{Kind: SgrNotCrossedOut})
		case code >= 30 && code <= 37:
			out = append(out, Sgr{Kind: SgrTextColor, Color: palette[code-30]})
		case code >= 90 && code <= 97:
			out = append(out, Sgr{Kind: SgrTextColor, Color: palette[code-90+8]})
		case code == 39:
			out = append(out, Sgr{Kind: SgrDefaultTextColor})
		case code >= 40 && code <= 47:
			out = append(out, Sgr{Kind: SgrBackgroundColor, Color: palette[code-40]})
		case code >= 100 && code <= 107:
			out = append(out, Sgr{Kind: SgrBackgroundColor, Color: palette[code-100+8]})
		case code == 49:
			out = append(out, Sgr{Kind: SgrDefaultBackgroundColor})
		case code == 38 || code == 48:
			c, used, ok := extendedColor(params[i+1:])
			if !ok {
				return out
			}
			kind := SgrTextColor
			if code == 48 {
				kind = SgrBackgroundColor
			}
			out = append(out, Sgr{Kind: kind, Color: c})
			i += used
		}
	}
	return out
}

// extendedColor decodes "5;n" and "2;r;g;b" color selectors.
func extendedColor(params []int) (Rgb, int, bool) {
	if len(params) == 0 {
		return Rgb{}, 0, false
	}
	switch params[0] {
	case 5:
		if len(params) < 2 || !byteRange(params[1]) {
			return Rgb{}, 0, false
		}
		return StandardColor(uint8(params[1])), 2, true
	case 2:
		if len(params) < 4 || !byteRange(params[1]) || !byteRange(params[2]) || !byteRange(params[3]) {
			return Rgb{}, 0, false
		}
		return Rgb{uint8(params[1]), uint8(params[2]), uint8(params[3])}, 4, true
	default:
		return Rgb{}, 0, false
	}
}

func byteRange(v int) bool { return v >= 0 && v <= 255 }
