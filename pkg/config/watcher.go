package config

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultReloadDebounce 编辑器保存时常常连续触发多次写事件，合并为一次重载
const DefaultReloadDebounce = 200 * time.Millisecond

// Watcher 监听场景配置文件的变化
//
// 监听的是文件所在目录（很多编辑器用"写临时文件再改名"的方式保存），
// 只有目标文件的事件才会产生重载请求。重载请求通过带 1 个缓冲的通道发出，
// 帧回调用 select/default 非阻塞地取走，场景重建始终在帧线程上执行。
type Watcher struct {
	fsnotify *fsnotify.Watcher
	target   string
	debounce time.Duration

	reloads chan string
	done    chan struct{}

	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewWatcher 开始监听 path，debounce <= 0 时使用 DefaultReloadDebounce
func NewWatcher(path string, debounce time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path %s: %w", path, err)
	}
	if debounce <= 0 {
		debounce = DefaultReloadDebounce
	}

	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create config watcher: %w", err)
	}
	if err := fsWatch.Add(filepath.Dir(abs)); err != nil {
		fsWatch.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	w := &Watcher{
		fsnotify: fsWatch,
		target:   filepath.Clean(abs),
		debounce: debounce,
		reloads:  make(chan string, 1),
		done:     make(chan struct{}),
	}
	w.wg.Add(1)
	go w.run()

	log.Printf("[Config] Watching %s for changes", w.target)
	return w, nil
}

// Reloads 返回重载请求通道，值为被修改的配置文件路径
func (w *Watcher) Reloads() <-chan string {
	return w.reloads
}

// Path 返回被监听文件的绝对路径
func (w *Watcher) Path() string {
	return w.target
}

// Close 停止监听，可以重复调用
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		w.wg.Wait()
		err = w.fsnotify.Close()
	})
	return err
}

func (w *Watcher) run() {
	defer w.wg.Done()

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case e, ok := <-w.fsnotify.Events:
			if !ok {
				return
			}
			if !w.matches(e) {
				continue
			}
			// 每个新事件都把计时器往后推
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.notify()

		case err, ok := <-w.fsnotify.Errors:
			if !ok {
				return
			}
			if !errors.Is(err, fsnotify.ErrEventOverflow) {
				log.Printf("[Config] Watcher error: %v", err)
				continue
			}
			// 事件溢出时无法知道目标是否变化，保守地请求一次重载
			w.notify()

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// matches 判断事件是否针对目标文件的内容变化
func (w *Watcher) matches(e fsnotify.Event) bool {
	if filepath.Clean(e.Name) != w.target {
		return false
	}
	return e.Has(fsnotify.Write) || e.Has(fsnotify.Create) || e.Has(fsnotify.Rename)
}

// notify 非阻塞地投递重载请求，已有未处理的请求时直接合并
func (w *Watcher) notify() {
	select {
	case w.reloads <- w.target:
		log.Printf("[Config] %s changed, reload requested", w.target)
	default:
	}
}
