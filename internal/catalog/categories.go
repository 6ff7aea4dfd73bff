// Package catalog builds category listings from keyword searches, runs free
// text searches and produces search suggestions.
package catalog

import (
	"strings"

	"github.com/blackwell-systems/pkghub/internal/winget"
)

// Popular is the default category.
const Popular = "popular"

var categoryOrder = []string{
	Popular, "browser", "dev", "chinese", "media", "game",
	"tools", "office", "design", "network", "education",
}

var defaultKeywords = map[string][]string{
	Popular:     {"browser", "editor", "media", "tool", "utility", "office", "security", "network"},
	"browser":   {"browser", "web browser", "chrome", "firefox", "edge", "opera", "brave", "vivaldi", "safari", "tor"},
	"dev":       {"editor", "IDE", "development", "git", "python", "code", "java", "javascript", "cpp", "c++", "node", "php", "ruby", "go", "rust", "android", "ios", "flutter", "react", "vue"},
	"chinese":   {"wechat", "qq", "baidu", "tencent", "netease", "wps", "youku", "iqiyi", "bilibili", "alibaba", "taobao", "alipay", "sogou", "360", "kingsoft", "xunlei", "thunder"},
	"media":     {"player", "media", "music", "video", "audio", "vlc", "spotify", "youtube", "netflix", "itunes", "kodi", "mp3", "mp4", "streaming", "recorder", "converter"},
	"game":      {"game", "steam", "platform", "gaming", "epic", "ubisoft", "origin", "battle.net", "minecraft", "roblox", "fortnite", "gog", "emulator", "nintendo", "playstation", "xbox"},
	"tools":     {"tool", "utility", "zip", "pdf", "security", "antivirus", "firewall", "cleaner", "optimizer", "backup", "recovery", "partition", "disk", "monitor", "diagnostic", "remote", "vpn"},
	"office":    {"office", "word", "excel", "powerpoint", "outlook", "onenote", "wps", "libreoffice", "openoffice", "pdf", "editor", "presentation", "spreadsheet", "document"},
	"design":    {"design", "photo", "graphic", "adobe", "photoshop", "illustrator", "premiere", "after effects", "figma", "sketch", "blender", "maya", "3d", "vector", "animation"},
	"network":   {"network", "vpn", "proxy", "remote", "teamviewer", "anydesk", "ftp", "ssh", "telnet", "bittorrent", "torrent", "download", "accelerator"},
	"education": {"education", "learn", "language", "math", "science", "chemistry", "physics", "地理", "history", "dictionary", "translate", "calculator", "simulation"},
}

// Essentials are promoted to the front of the popular listing in this order.
var Essentials = []string{
	"Microsoft.Edge",
	"Google.Chrome",
	"Mozilla.Firefox",
	"Microsoft.VisualStudioCode",
	"7zip.7zip",
	"VideoLAN.VLC",
}

func pkg(id, name string) winget.Package {
	return winget.Package{ID: id, Name: name, Version: "latest", Source: winget.DefaultSource}
}

var fallbacks = map[string][]winget.Package{
	Popular: {
		pkg("Microsoft.Edge", "Microsoft Edge"),
		pkg("Google.Chrome", "Google Chrome"),
		pkg("Mozilla.Firefox", "Mozilla Firefox"),
		pkg("Microsoft.VisualStudioCode", "Visual Studio Code"),
		pkg("7zip.7zip", "7-Zip"),
		pkg("VideoLAN.VLC", "VLC Media Player"),
		pkg("Spotify.Spotify", "Spotify"),
		pkg("Git.Git", "Git"),
		pkg("Adobe.Acrobat.Reader.64-bit", "Adobe Reader"),
		pkg("WinRAR.WinRAR", "WinRAR"),
		pkg("TeamViewer.TeamViewer", "TeamViewer"),
		pkg("Valve.Steam", "Steam"),
		pkg("Python.Python.3", "Python 3"),
		pkg("Oracle.JavaRuntimeEnvironment", "Java Runtime"),
	},
	"browser": {
		pkg("Microsoft.Edge", "Microsoft Edge"),
		pkg("Google.Chrome", "Google Chrome"),
		pkg("Mozilla.Firefox", "Mozilla Firefox"),
		pkg("Opera.Opera", "Opera"),
		pkg("Brave.Brave", "Brave"),
		pkg("VivaldiTechnologies.Vivaldi", "Vivaldi"),
		pkg("TorProject.TorBrowser", "Tor Browser"),
	},
	"dev": {
		pkg("Microsoft.VisualStudioCode", "Visual Studio Code"),
		pkg("Git.Git", "Git"),
		pkg("Python.Python.3", "Python 3"),
		pkg("Microsoft.VisualStudio.2022.Community", "Visual Studio 2022"),
		pkg("JetBrains.IntelliJIDEA.Community", "IntelliJ IDEA"),
		pkg("OpenJS.NodeJS", "Node.js"),
		pkg("Oracle.JavaRuntimeEnvironment", "Java Runtime"),
	},
	"chinese": {
		pkg("Tencent.WeChat", "微信"),
		pkg("Tencent.QQ", "QQ"),
		pkg("Baidu.BaiduNetdisk", "百度网盘"),
		pkg("Kingsoft.WPSOffice", "WPS Office"),
		pkg("Sogou.SogouInput", "搜狗输入法"),
		pkg("Bilibili.Bilibili", "哔哩哔哩"),
	},
	"media": {
		pkg("VideoLAN.VLC", "VLC Media Player"),
		pkg("Spotify.Spotify", "Spotify"),
		pkg("7zip.7zip", "7-Zip"),
		pkg("IrfanSkiljan.IrfanView", "IrfanView"),
		pkg("Audacity.Audacity", "Audacity"),
		pkg("KodiFoundation.Kodi", "Kodi"),
	},
	"game": {
		pkg("Valve.Steam", "Steam"),
		pkg("EpicGames.EpicGamesLauncher", "Epic Games"),
		pkg("Ubisoft.Connect", "Ubisoft Connect"),
		pkg("ElectronicArts.EADesktop", "EA Desktop"),
		pkg("Mojang.MinecraftLauncher", "Minecraft"),
		pkg("GOG.Galaxy", "GOG Galaxy"),
	},
}

// Categories returns the known category names in display order.
func Categories() []string {
	return append([]string(nil), categoryOrder...)
}

// Normalize maps the empty category to Popular.
func Normalize(category string) string {
	category = strings.TrimSpace(category)
	if category == "" {
		return Popular
	}
	return category
}

// DefaultKeywords returns a copy of the built-in keyword table.
func DefaultKeywords() map[string][]string {
	out := make(map[string][]string, len(defaultKeywords))
	for k, v := range defaultKeywords {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// Fallback returns the curated listing for category. Categories without one
// get the popular listing.
func Fallback(category string) []winget.Package {
	pkgs, ok := fallbacks[category]
	if !ok {
		pkgs = fallbacks[Popular]
	}
	return append([]winget.Package(nil), pkgs...)
}
