package player

//go:generate mockgen -destination=mocks/mock_core.go -package=mocks . Core

// Core is the native media engine behind one player. Results of commands
// that complete asynchronously come back as native events.
type Core interface {
	SetOption(category int, key string, value any) error
	SetDataSource(url string) error
	PrepareAsync() error
	Start() error
	Pause() error
	Stop() error
	Reset() error
	SeekTo(msec int64) error
	SetVolume(volume float32) error
	SetSpeed(speed float32) error
	CurrentPosition() int64
	Duration() int64
	Release() error
}

// NopCore is a Core for engines that live in another process. Commands
// succeed without effect; the remote engine reports through native events.
type NopCore struct{}

func (NopCore) SetOption(int, string, any) error { return nil }
func (NopCore) SetDataSource(string) error       { return nil }
func (NopCore) PrepareAsync() error              { return nil }
func (NopCore) Start() error                     { return nil }
func (NopCore) Pause() error                     { return nil }
func (NopCore) Stop() error                      { return nil }
func (NopCore) Reset() error                     { return nil }
func (NopCore) SeekTo(int64) error               { return nil }
func (NopCore) SetVolume(float32) error          { return nil }
func (NopCore) SetSpeed(float32) error           { return nil }
func (NopCore) CurrentPosition() int64           { return 0 }
func (NopCore) Duration() int64                  { return 0 }
func (NopCore) Release() error                   { return nil }
