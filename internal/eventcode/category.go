package eventcode

// Category groups codes by their numeric range.
type Category string

const (
	CategoryFlush        Category = "flush"
	CategoryError        Category = "error"
	CategoryLifecycle    Category = "lifecycle"
	CategoryMedia        Category = "media"
	CategoryBuffering    Category = "buffering"
	CategorySeek         Category = "seek"
	CategoryState        Category = "state"
	CategoryTimedText    Category = "timed_text"
	CategoryAccurateSeek Category = "accurate_seek"
	CategoryImageCapture Category = "image_capture"
	CategoryUnknown      Category = "unknown"
)

// Category returns the range category of c, or CategoryUnknown if c is not
// a published code.
func (c EventCode) Category() Category {
	if !c.Valid() {
		return CategoryUnknown
	}
	switch {
	case c == Flush:
		return CategoryFlush
	case c == Error:
		return CategoryError
	case c >= Prepared && c <= Completed:
		return CategoryLifecycle
	case c >= VideoSizeChanged && c <= AudioSeekRenderingStart:
		return CategoryMedia
	case c >= BufferingStart && c <= CurrentPositionUpdate:
		return CategoryBuffering
	case c == SeekComplete:
		return CategorySeek
	case c == PlaybackStateChanged:
		return CategoryState
	case c == TimedText:
		return CategoryTimedText
	case c == AccurateSeekComplete:
		return CategoryAccurateSeek
	case c == GetImgState:
		return CategoryImageCapture
	default:
		return CategoryUnknown
	}
}
