package model

// Device describes the captured viewport.
type Device struct {
	Width       int     `yaml:"width"       json:"width"`       // CSS pixels
	Height      int     `yaml:"height"      json:"height"`      // CSS pixels
	ScaleFactor float64 `yaml:"scaleFactor" json:"scaleFactor"` // Device pixel ratio
	PPI         int     `yaml:"ppi"         json:"ppi"`         // Physical pixels per inch
}

// Element is one detected interactive region of the page.
type Element struct {
	Left           float64 `yaml:"left"           json:"left"`
	Top            float64 `yaml:"top"            json:"top"`
	Width          float64 `yaml:"width"          json:"width"`
	Height         float64 `yaml:"height"         json:"height"`
	WidthMm        float64 `yaml:"widthMm"        json:"widthMm"`
	HeightMm       float64 `yaml:"heightMm"       json:"heightMm"`
	TapSuccessRate float64 `yaml:"tapSuccessRate" json:"tapSuccessRate"` // 0..1
}

// Area returns width × height in square pixels.
func (e Element) Area() float64 {
	return e.Width * e.Height
}

// Contains reports whether the point (x, y) lies inside the element.
// The left and top edges are inclusive, the right and bottom edges exclusive,
// so zero-sized elements contain nothing.
func (e Element) Contains(x, y float64) bool {
	return x >= e.Left && x < e.Left+e.Width && y >= e.Top && y < e.Top+e.Height
}

// AnalyzeResult is the output of one analysis run: the captured screenshot
// and every interactive region the engine detected, in detection order.
type AnalyzeResult struct {
	Device     Device    `yaml:"device"     json:"device"`
	Elements   []Element `yaml:"elements"   json:"elements"`
	Screenshot string    `yaml:"screenshot" json:"screenshot"` // raw base64 or data URI
}
