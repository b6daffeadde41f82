package game

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

// DefaultSampleRate 音频上下文采样率
const DefaultSampleRate = 48000

var (
	// ErrAudioUnavailable 没有可用的音频上下文
	ErrAudioUnavailable = errors.New("audio context unavailable")
	// ErrUnsupportedAudio 不支持的音频格式
	ErrUnsupportedAudio = errors.New("unsupported audio format")
)

// IsMusicFile 按扩展名判断是否为支持的音乐文件（.mp3/.ogg/.wav）
func IsMusicFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3", ".ogg", ".wav":
		return true
	}
	return false
}

// musicStream 解码后的音频流
type musicStream interface {
	io.ReadSeeker
	Length() int64
}

// decodeMusic 按扩展名解码，输出重采样到 sampleRate
func decodeMusic(name string, data []byte, sampleRate int) (musicStream, error) {
	reader := bytes.NewReader(data)
	ext := strings.ToLower(filepath.Ext(name))

	switch ext {
	case ".mp3":
		s, err := mp3.DecodeWithSampleRate(sampleRate, reader)
		if err != nil {
			return nil, fmt.Errorf("failed to decode MP3 audio %s: %w", name, err)
		}
		return s, nil
	case ".ogg":
		s, err := vorbis.DecodeWithSampleRate(sampleRate, reader)
		if err != nil {
			return nil, fmt.Errorf("failed to decode OGG audio %s: %w", name, err)
		}
		return s, nil
	case ".wav":
		s, err := wav.DecodeWithSampleRate(sampleRate, reader)
		if err != nil {
			return nil, fmt.Errorf("failed to decode WAV audio %s: %w", name, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %q (supported: .mp3, .ogg, .wav)", ErrUnsupportedAudio, ext)
	}
}

// AudioManager 背景音乐管理器
//
// 职责：
//   - 加载用户提供的音乐文件（--music 参数或拖放到窗口）
//   - 循环播放，音量和开关跟随 SettingsManager
//
// 音频上下文为 nil 时处于静音模式：加载返回 ErrAudioUnavailable，播放什么也不做。
type AudioManager struct {
	context         *audio.Context
	settingsManager *SettingsManager
	player          *audio.Player
	musicPath       string
}

// NewAudioManager 创建新的音频管理器
//
// sm 为 nil 时使用仅内存的默认设置。
func NewAudioManager(ctx *audio.Context, sm *SettingsManager) *AudioManager {
	if sm == nil {
		sm, _ = NewSettingsManager(nil)
	}
	return &AudioManager{
		context:         ctx,
		settingsManager: sm,
	}
}

// Available 是否有可用的音频上下文
func (am *AudioManager) Available() bool {
	return am.context != nil
}

// LoadMusic 从文件加载背景音乐（替换当前音乐，但不自动播放）
func (am *AudioManager) LoadMusic(path string) error {
	if !IsMusicFile(path) {
		return fmt.Errorf("%w: %s", ErrUnsupportedAudio, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read audio file %s: %w", path, err)
	}
	return am.LoadMusicData(path, data)
}

// LoadMusicData 从内存加载背景音乐，name 用于判断格式
func (am *AudioManager) LoadMusicData(name string, data []byte) error {
	if !IsMusicFile(name) {
		return fmt.Errorf("%w: %s", ErrUnsupportedAudio, name)
	}
	if am.context == nil {
		return ErrAudioUnavailable
	}

	stream, err := decodeMusic(name, data, am.context.SampleRate())
	if err != nil {
		return err
	}

	// 背景音乐无限循环
	loop := audio.NewInfiniteLoop(stream, stream.Length())
	player, err := am.context.NewPlayer(loop)
	if err != nil {
		return fmt.Errorf("failed to create audio player for %s: %w", name, err)
	}

	am.closePlayer()
	am.player = player
	am.musicPath = name
	am.settingsManager.SetMusicPath(name)
	log.Printf("[AudioManager] Loaded music: %s", name)
	return nil
}

// PlayMusic 播放已加载的背景音乐，返回是否在播放
func (am *AudioManager) PlayMusic() bool {
	if am.player == nil {
		return false
	}
	if !am.musicEnabled() {
		return false
	}
	if am.player.IsPlaying() {
		return true
	}

	volume := am.GetMusicVolume()
	am.player.SetVolume(volume)
	am.player.Play()
	log.Printf("[AudioManager] Playing music: %s (volume: %.2f)", am.musicPath, volume)
	return true
}

// StopMusic 暂停背景音乐（保留播放位置）
func (am *AudioManager) StopMusic() {
	if am.player != nil {
		am.player.Pause()
	}
}

// ToggleMusic 切换音乐开关并立即生效，返回切换后的开关状态
func (am *AudioManager) ToggleMusic() bool {
	enabled := !am.musicEnabled()
	am.settingsManager.SetMusicEnabled(enabled)
	if enabled {
		am.PlayMusic()
	} else {
		am.StopMusic()
	}
	log.Printf("[AudioManager] Music enabled: %v", enabled)
	return enabled
}

// IsPlaying 背景音乐是否正在播放
func (am *AudioManager) IsPlaying() bool {
	return am.player != nil && am.player.IsPlaying()
}

// CurrentMusic 当前加载的音乐文件，没有时为空
func (am *AudioManager) CurrentMusic() string {
	return am.musicPath
}

// SetMusicVolume 设置音乐音量并立即应用
func (am *AudioManager) SetMusicVolume(volume float64) {
	am.settingsManager.SetMusicVolume(volume)
	if am.player != nil {
		am.player.SetVolume(am.GetMusicVolume())
	}
}

// GetMusicVolume 获取当前音乐音量
func (am *AudioManager) GetMusicVolume() float64 {
	return am.settingsManager.GetSettings().MusicVolume
}

// Close 停止并释放播放器
func (am *AudioManager) Close() {
	am.closePlayer()
	am.musicPath = ""
}

func (am *AudioManager) musicEnabled() bool {
	return am.settingsManager.GetSettings().MusicEnabled
}

func (am *AudioManager) closePlayer() {
	if am.player == nil {
		return
	}
	am.player.Pause()
	if err := am.player.Close(); err != nil {
		log.Printf("[AudioManager] Warning: Failed to close player: %v", err)
	}
	am.player = nil
}
