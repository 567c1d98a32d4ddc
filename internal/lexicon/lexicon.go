package lexicon

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrMissing marks a configured lexicon resource that could not be loaded.
var ErrMissing = errors.New("lexicon resource missing")

// VerbClass maps an event verb to its event type and importance weight.
type VerbClass struct {
	Type   string
	Weight float64
}

// Set bundles every lexicon the pipeline consumes. A Set is read-only after
// construction; stages receive it explicitly so tests can inject fixtures.
type Set struct {
	StopWords     map[string]bool
	Surnames      map[rune]bool
	FunctionChars map[rune]bool
	PlaceSuffixes map[rune]string

	EventVerbs      map[string]VerbClass
	TurningCues     []string
	ConsequenceCues []string

	Positive map[string]bool
	Negative map[string]bool
	Emotions map[string][]string

	StateDeltas map[string]map[string]float64

	Honorifics map[string]string

	AbsoluteTime []string
	RelativeTime []string
}

// Default returns the built-in lexicons.
func Default() *Set {
	s := &Set{
		StopWords: toSet(strings.Fields(
			"的 了 在 是 我 有 和 就 不 人 都 一 一个 上 也 很 到 说 要 去 你 会 着 没有 看 好 自己 这 那 他 她 它 们 被 把 让 向 从 对 之 其 与 及 而 但 却 又 再 更 已 曾 将 于 以 为 所 因 由 如 若 虽 则 乃")),
		Surnames:      runeSet("赵钱孙李周吴郑王冯陈蒋沈韩杨朱秦许何吕施张孔曹严华金魏陶姜谢邹苏潘范彭鲁韦马苗凤花俞袁柳鲍史唐费岑薛雷贺倪汤滕殷罗毕郝邬齐康伍元卜顾孟黄萧尹姚邵湛汪祁毛禹狄米贝明臧计伏成戴谈宋茅庞熊纪舒屈项祝董梁杜阮蓝闵席季麻强贾路娄危江童颜郭梅盛林刁钟徐邱骆高夏蔡田樊胡凌霍虞万支柯咎管卢莫经房裘缪干解应宗丁宣贲邓郁单杭洪包诸左石崔吉钮龚程嵇邢滑裴陆荣翁荀羊惠甄曲封芮羿储靳汲邴糜松井段富巫乌焦巴弓牧隗山谷车侯宓蓬全郗班仰秋仲伊宫宁仇栾暴甘钭厉戎祖武符刘景詹束龙叶幸司韶郜黎蓟薄印宿白怀蒲台丛鄂索咸籍赖卓蔺屠蒙池乔阴郁胥能苍双闻莘党翟谭贡劳逄姬申扶堵冉宰郦雍却璩桑桂濮牛寿通边扈燕冀郏浦尚农温别庄晏柴瞿阎充慕连茹习宦艾鱼容易慎戈廖庾终暨居衡步都耿满弘匡国文寇广禄阙东殴殳沃利蔚越夔隆师巩厍聂晁勾敖融冷訾辛阚毋乜夔"),
		FunctionChars: runeSet("的了是在就不都也很说道问答要去会着看好这那与和同跟对把被为于从向但而或及其此该呢吗吧啊呀么些之乃若到来进出入回往"),
		PlaceSuffixes: map[rune]string{
			'省': "region", '州': "region", '国': "region", '域': "region",
			'市': "city", '城': "city", '镇': "city", '村': "city", '京': "city",
			'山': "mountain", '峰': "mountain", '岭': "mountain", '崖': "mountain", '谷': "mountain",
			'府': "building", '宫': "building", '殿': "building", '寺': "building",
			'楼': "building", '阁': "building", '塔': "building", '庄': "building",
			'堂': "room", '房': "room", '室': "room", '斋': "room",
			'湖': "region", '海': "region", '江': "region", '河': "region", '岛': "region", '林': "region",
		},
		EventVerbs: map[string]VerbClass{
			"见": {"meeting", 0.6}, "遇": {"meeting", 0.6}, "相逢": {"meeting", 0.6},
			"重逢": {"meeting", 0.6}, "拜访": {"meeting", 0.5}, "相识": {"meeting", 0.6},
			"战": {"conflict", 1.0}, "斗": {"conflict", 1.0}, "杀": {"conflict", 1.0},
			"打": {"conflict", 0.8}, "攻": {"conflict", 0.9}, "袭": {"conflict", 0.9},
			"击败": {"conflict", 1.0}, "交手": {"conflict", 0.8},
			"救": {"cooperation", 0.7}, "助": {"cooperation", 0.6}, "帮": {"cooperation", 0.6},
			"联手": {"cooperation", 0.7}, "合作": {"cooperation", 0.7}, "护": {"cooperation", 0.6},
			"离开": {"parting", 0.5}, "分别": {"parting", 0.5}, "告别": {"parting", 0.5},
			"逃": {"parting", 0.6}, "归": {"parting", 0.5}, "送别": {"parting", 0.5},
			"发现": {"discovery", 0.6}, "得知": {"discovery", 0.6}, "察觉": {"discovery", 0.6},
			"找到": {"discovery", 0.6}, "识破": {"discovery", 0.7}, "寻": {"discovery", 0.5},
			"成亲": {"turning-point", 0.9}, "拜师": {"turning-point", 0.9},
			"称帝": {"turning-point", 0.9}, "突破": {"turning-point", 0.8},
			"受伤": {"other", 0.4}, "病倒": {"other", 0.4}, "决定": {"other", 0.5},
			"修炼": {"other", 0.3}, "获得": {"other", 0.4}, "失去": {"other", 0.4},
		},
		TurningCues:     []string{"突然", "忽然", "自此", "从此", "此时", "不料", "谁知"},
		ConsequenceCues: []string{"于是", "因此", "导致", "结果", "因而", "所以", "造成"},
		Positive: toSet(strings.Fields(
			"高兴 开心 快乐 喜悦 欢喜 兴奋 激动 满意 欣慰 愉快 舒畅 微笑 大笑 欢笑 喜爱 爱慕 思念 牵挂 关心 痊愈 康复 胜利 成功")),
		Negative: toSet(strings.Fields(
			"悲伤 难过 痛苦 伤心 流泪 哀伤 失望 沮丧 绝望 忧愁 忧伤 悲痛 愤怒 生气 恼怒 暴怒 仇恨 憎恨 怨恨 不满 害怕 恐惧 惊恐 恐慌 畏惧 胆怯 担忧 忧虑 紧张 不安 受伤 重伤 身亡 失败 厌恶 嫌弃")),
		Emotions: map[string][]string{
			"joy":      {"高兴", "开心", "快乐", "喜悦", "欢喜", "兴奋", "激动", "欣慰", "愉快", "微笑", "大笑"},
			"sadness":  {"悲伤", "难过", "痛苦", "伤心", "流泪", "哀伤", "失望", "沮丧", "绝望", "悲痛"},
			"anger":    {"愤怒", "生气", "恼怒", "暴怒", "仇恨", "憎恨", "怨恨", "不满"},
			"fear":     {"害怕", "恐惧", "惊恐", "恐慌", "畏惧", "胆怯", "担忧", "忧虑", "紧张", "不安"},
			"surprise": {"惊讶", "惊奇", "吃惊", "震惊", "诧异", "意外", "愕然", "惊呆"},
			"disgust":  {"厌恶", "嫌弃", "恶心", "鄙夷", "不屑", "嫌恶"},
		},
		StateDeltas: map[string]map[string]float64{
			"health": {
				"受伤": -0.2, "重伤": -0.35, "轻伤": -0.1, "负伤": -0.2, "中毒": -0.25,
				"生病": -0.15, "病倒": -0.2, "身亡": -0.5, "殒命": -0.5,
				"痊愈": 0.25, "康复": 0.2, "恢复": 0.15,
			},
			"mood": {
				"开心": 0.15, "高兴": 0.15, "大喜": 0.2, "欣喜": 0.15, "平静": 0.05,
				"悲伤": -0.2, "痛苦": -0.25, "伤心": -0.2, "愤怒": -0.15, "绝望": -0.3,
			},
			"ability": {
				"突破": 0.25, "顿悟": 0.2, "大成": 0.25, "精进": 0.1, "修炼": 0.05,
				"走火入魔": -0.3, "修为尽失": -0.4, "受创": -0.1,
			},
			"social_standing": {
				"称帝": 0.4, "封王": 0.3, "掌门": 0.3, "成名": 0.2, "拜师": 0.1, "升任": 0.15,
				"被贬": -0.25, "入狱": -0.3, "逐出": -0.25, "名誉扫地": -0.3,
			},
		},
		Honorifics: map[string]string{
			"父亲": "kin", "母亲": "kin", "爹": "kin", "娘": "kin", "兄长": "kin", "爷爷": "kin",
			"师父": "master-disciple", "师傅": "master-disciple", "师尊": "master-disciple",
			"夫君": "lover", "娘子": "lover", "相公": "lover", "夫人": "lover",
			"师兄": "colleague", "师弟": "colleague", "师姐": "colleague", "师妹": "colleague",
		},
		AbsoluteTime: []string{
			`[一二三四五六七八九十百千\d]+年`, `[一二三四五六七八九十\d]+月`,
			`初[一二三四五六七八九十]`, `[一二三四五六七八九十\d]+日`,
			`春天`, `夏天`, `秋天`, `冬天`, `清晨`, `早上`, `中午`, `下午`, `傍晚`, `晚上`, `夜里`, `深夜`,
		},
		RelativeTime: []string{
			`第二天`, `次日`, `翌日`, `次年`,
			`[一二三四五六七八九十\d]+[天日月年]后`, `[一二三四五六七八九十\d]+[天日月年]之后`,
			`同时`, `此时`, `这时`, `那时`, `之前`, `之后`, `不久`, `随后`, `接着`, `然后`,
		},
	}
	return s
}

// Load builds a Set from dir, starting from the defaults and overriding any
// list for which a file exists. A non-existent dir is an ErrMissing.
//
// File formats: one entry per line. stopwords.txt, positive.txt, negative.txt
// carry bare words; event_verbs.txt lines are "word type weight";
// state_<axis>.txt lines are "word delta".
func Load(dir string) (*Set, error) {
	s := Default()
	if dir == "" {
		return s, nil
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: lexicon dir '%s'", ErrMissing, dir)
	}

	if words, err := readLines(filepath.Join(dir, "stopwords.txt")); err == nil {
		s.StopWords = toSet(words)
	}
	if words, err := readLines(filepath.Join(dir, "positive.txt")); err == nil {
		s.Positive = toSet(words)
	}
	if words, err := readLines(filepath.Join(dir, "negative.txt")); err == nil {
		s.Negative = toSet(words)
	}
	if lines, err := readLines(filepath.Join(dir, "event_verbs.txt")); err == nil {
		verbs := make(map[string]VerbClass)
		for _, line := range lines {
			fields := strings.Fields(line)
			if len(fields) != 3 {
				continue
			}
			w, err := strconv.ParseFloat(fields[2], 64)
			if err != nil {
				continue
			}
			verbs[fields[0]] = VerbClass{Type: fields[1], Weight: w}
		}
		if len(verbs) > 0 {
			s.EventVerbs = verbs
		}
	}
	for _, axis := range []string{"health", "mood", "ability", "social_standing"} {
		lines, err := readLines(filepath.Join(dir, "state_"+axis+".txt"))
		if err != nil {
			continue
		}
		deltas := make(map[string]float64)
		for _, line := range lines {
			fields := strings.Fields(line)
			if len(fields) != 2 {
				continue
			}
			d, err := strconv.ParseFloat(fields[1], 64)
			if err != nil {
				continue
			}
			deltas[fields[0]] = d
		}
		if len(deltas) > 0 {
			s.StateDeltas[axis] = deltas
		}
	}

	return s, nil
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" && !strings.HasPrefix(line, "#") {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}

func toSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

func runeSet(s string) map[rune]bool {
	set := make(map[rune]bool, len(s))
	for _, r := range s {
		set[r] = true
	}
	return set
}
