package util

import (
    "fmt"
    "io"
    "os"
)

var GLOBAL_LOG_LEVEL = LogLevelWarning
var GLOBAL_LOG_CATEGORIES = LogTileMap | LogTextures | LogOpenGL | LogIO | LogSystem

var logOutput io.Writer = os.Stderr

type LogLevel int

const (
    LogLevelError LogLevel = 1 << iota
    LogLevelWarning
    LogLevelDebug
    LogLevelInfo
)

type LogCategory int

const (
    LogTileMap LogCategory = 1 << iota
    LogTextures
    LogOpenGL
    LogIO
    LogSystem
)

// SetLogOutput redirects all log lines to w. Passing nil restores stderr.
func SetLogOutput(w io.Writer) {
    if w == nil {
        w = os.Stderr
    }
    logOutput = w
}

func log(cat LogCategory, lvl LogLevel, txt string) {
    if lvl > GLOBAL_LOG_LEVEL {
        return
    }
    if GLOBAL_LOG_CATEGORIES&cat == 0 {
        return
    }
    fmt.Fprintln(logOutput, txt)
}

func LogTileMapInfo(txt string) {
    log(LogTileMap, LogLevelInfo, txt)
}

func LogTileMapDebug(txt string) {
    log(LogTileMap, LogLevelDebug, txt)
}

func LogTileMapWarning(txt string) {
    log(LogTileMap, LogLevelWarning, txt)
}

func LogTileMapError(txt string) {
    log(LogTileMap, LogLevelError, txt)
}

func LogTextureDebug(txt string) {
    log(LogTextures, LogLevelDebug, txt)
}

func LogTextureError(txt string) {
    log(LogTextures, LogLevelError, txt)
}

func LogIOError(txt string) {
    log(LogIO, LogLevelError, txt)
}

func LogSystemInfo(txt string) {
    log(LogSystem, LogLevelInfo, txt)
}

func LogGlInfo(txt string) {
    log(LogOpenGL, LogLevelInfo, txt)
}

func LogGlDebug(txt string) {
    log(LogOpenGL, LogLevelDebug, txt)
}

func LogGlError(txt string) {
    log(LogOpenGL, LogLevelError, txt)
}
