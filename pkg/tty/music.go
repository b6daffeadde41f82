package tty

import (
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/vorbis"
	"github.com/gopxl/beep/wav"
)

// outputRate 扬声器采样率，其他采样率的音乐会被重采样
const outputRate = beep.SampleRate(44100)

// ErrUnsupportedMusic 不支持的音乐格式
var ErrUnsupportedMusic = errors.New("unsupported music format")

// musicSink 音频输出，默认是 beep 的 speaker
type musicSink interface {
	Init(sr beep.SampleRate) error
	Play(s beep.Streamer)
	Lock()
	Unlock()
	Clear()
}

type speakerSink struct{}

func (speakerSink) Init(sr beep.SampleRate) error { return speaker.Init(sr, sr.N(time.Second/10)) }
func (speakerSink) Play(s beep.Streamer)          { speaker.Play(s) }
func (speakerSink) Lock()                         { speaker.Lock() }
func (speakerSink) Unlock()                       { speaker.Unlock() }
func (speakerSink) Clear()                        { speaker.Clear() }

// decodeMusic 按扩展名选择解码器
//
// 返回的流负责关闭 rc；出错时 rc 已关闭。
func decodeMusic(name string, rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
	var (
		stream beep.StreamSeekCloser
		format beep.Format
		err    error
	)
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".mp3":
		stream, format, err = mp3.Decode(rc)
	case ".ogg":
		stream, format, err = vorbis.Decode(rc)
	case ".wav":
		stream, format, err = wav.Decode(rc)
	default:
		rc.Close()
		return nil, beep.Format{}, fmt.Errorf("%w: %q (supported: .mp3, .ogg, .wav)", ErrUnsupportedMusic, ext)
	}
	if err != nil {
		rc.Close()
		return nil, beep.Format{}, fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return stream, format, nil
}

// MusicPlayer 终端前端的背景音乐（beep）
//
// 音乐循环播放，加载后默认暂停，由 Play/Toggle 控制。
// speaker 在第一次加载时才初始化，没有音频设备时只是加载失败，查看器照常运行。
type MusicPlayer struct {
	sink  musicSink
	ready bool

	stream  beep.StreamSeekCloser
	ctrl    *beep.Ctrl
	volume  *effects.Volume
	current string
}

// NewMusicPlayer 创建使用系统扬声器的播放器
func NewMusicPlayer() *MusicPlayer {
	return newMusicPlayer(speakerSink{})
}

func newMusicPlayer(sink musicSink) *MusicPlayer {
	return &MusicPlayer{sink: sink}
}

// Load 打开并解码音乐文件，替换当前音乐
func (p *MusicPlayer) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open music %s: %w", path, err)
	}
	return p.load(path, f)
}

func (p *MusicPlayer) load(name string, rc io.ReadCloser) error {
	stream, format, err := decodeMusic(name, rc)
	if err != nil {
		return err
	}

	if !p.ready {
		if err := p.sink.Init(outputRate); err != nil {
			stream.Close()
			return fmt.Errorf("failed to init speaker: %w", err)
		}
		p.ready = true
	}

	p.sink.Clear()
	p.closeStream()

	var s beep.Streamer = beep.Loop(-1, stream)
	if format.SampleRate != outputRate {
		s = beep.Resample(4, format.SampleRate, outputRate, s)
	}
	p.ctrl = &beep.Ctrl{Streamer: s, Paused: true}
	p.volume = &effects.Volume{Streamer: p.ctrl, Base: 2}
	p.stream = stream
	p.current = name
	p.sink.Play(p.volume)

	log.Printf("[MusicPlayer] Loaded %s (%d Hz)", name, format.SampleRate)
	return nil
}

// Play 开始播放，没有音乐时返回 false
func (p *MusicPlayer) Play() bool {
	if p.ctrl == nil {
		return false
	}
	p.sink.Lock()
	p.ctrl.Paused = false
	p.sink.Unlock()
	return true
}

// Toggle 暂停/继续，返回切换后是否在播放
func (p *MusicPlayer) Toggle() bool {
	if p.ctrl == nil {
		return false
	}
	p.sink.Lock()
	p.ctrl.Paused = !p.ctrl.Paused
	playing := !p.ctrl.Paused
	p.sink.Unlock()
	return playing
}

// IsPlaying 是否正在播放
func (p *MusicPlayer) IsPlaying() bool {
	if p.ctrl == nil {
		return false
	}
	p.sink.Lock()
	defer p.sink.Unlock()
	return !p.ctrl.Paused
}

// Current 当前音乐文件名，没有时为空
func (p *MusicPlayer) Current() string {
	return p.current
}

// SetVolume 音量（0~1），0 为静音
func (p *MusicPlayer) SetVolume(v float64) {
	if p.volume == nil {
		return
	}
	p.sink.Lock()
	defer p.sink.Unlock()
	if v <= 0 {
		p.volume.Silent = true
		return
	}
	if v > 1 {
		v = 1
	}
	p.volume.Silent = false
	// Base 为 2：Volume 是以 2 为底的对数增益，0 表示原始音量
	p.volume.Volume = math.Log2(v)
}

// Close 停止播放并释放音乐流
func (p *MusicPlayer) Close() {
	if p.ready {
		p.sink.Clear()
	}
	p.closeStream()
	p.ctrl = nil
	p.volume = nil
}

func (p *MusicPlayer) closeStream() {
	if p.stream == nil {
		return
	}
	if err := p.stream.Close(); err != nil {
		log.Printf("[MusicPlayer] Failed to close stream: %v", err)
	}
	p.stream = nil
}
