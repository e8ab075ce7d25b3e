// Package input 解析终端输入的命令
package input

import (
	"strconv"
	"strings"
)

// Kind 命令类型
type Kind int

const (
	Play Kind = iota // 出牌，Arg 为牌面
	Pass
	Hint
	Next
	Quit
	Help
	Create // Arg 为起始级别，可为空
	Join   // Arg 为房间号
	Match
	Ready
	Unready
	Bots
	Leave
	Stats
	Top
	Pause
	Resume
	State
)

// Command 一条已解析的命令
type Command struct {
	Kind Kind
	Arg  string
}

var keywords = map[string]Kind{
	"p":       Pass,
	"pass":    Pass,
	"不出":      Pass,
	"?":       Hint,
	"？":       Hint,
	"hint":    Hint,
	"n":       Next,
	"next":    Next,
	"quit":    Quit,
	"exit":    Quit,
	"help":    Help,
	"create":  Create,
	"join":    Join,
	"match":   Match,
	"ready":   Ready,
	"unready": Unready,
	"bots":    Bots,
	"leave":   Leave,
	"stats":   Stats,
	"top":     Top,
	"pause":   Pause,
	"resume":  Resume,
	"state":   State,
}

// Parse 解析一行输入，不是关键字的输入都当作出牌
func Parse(line string) (Command, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Command{}, false
	}

	word, rest, _ := strings.Cut(line, " ")
	if kind, ok := keywords[strings.ToLower(word)]; ok {
		return Command{Kind: kind, Arg: strings.TrimSpace(rest)}, true
	}
	return Command{Kind: Play, Arg: line}, true
}

// LevelArg 解析创建房间时的起始级别，缺省为 0
func LevelArg(arg string) (int, error) {
	if arg == "" {
		return 0, nil
	}
	switch strings.ToUpper(arg) {
	case "A":
		return 1, nil
	case "J":
		return 11, nil
	case "Q":
		return 12, nil
	case "K":
		return 13, nil
	}
	return strconv.Atoi(arg)
}

// HelpText 命令说明
const HelpText = `出牌: 输入牌面，如 33、10JQKA、W 为逢人配、H5H6H7H8H9 指定花色
p 不出  ? 提示  n 下一局  quit 退出
联网: create [级别]  join 房间号  match  ready  unready  bots  leave
      stats  top  pause  resume  state`
