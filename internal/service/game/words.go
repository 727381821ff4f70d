package game

import (
	"context"
	"errors"
)

// WordSource 提供一组相关的词语，可能需要等待外部服务
type WordSource interface {
	FetchWords(ctx context.Context) (WordPair, error)
}

// 默认词库：Primary 给平民，Secondary 给卧底
var DefaultWordPairs = []WordPair{
	{Primary: "苹果", Secondary: "梨"},
	{Primary: "牛奶", Secondary: "豆浆"},
	{Primary: "饺子", Secondary: "包子"},
	{Primary: "眼镜", Secondary: "墨镜"},
	{Primary: "蝴蝶", Secondary: "蜜蜂"},
	{Primary: "警察", Secondary: "保安"},
	{Primary: "钢琴", Secondary: "吉他"},
	{Primary: "火锅", Secondary: "麻辣烫"},
	{Primary: "地铁", Secondary: "公交"},
	{Primary: "月亮", Secondary: "太阳"},
	{Primary: "微信", Secondary: "QQ"},
	{Primary: "西瓜", Secondary: "哈密瓜"},
}

var errEmptyWordList = errors.New("词库为空")

// ListSource 从固定词库中随机抽取一组词
type ListSource struct {
	Pairs  []WordPair
	Picker Picker
}

func NewListSource(pairs []WordPair, picker Picker) *ListSource {
	if len(pairs) == 0 {
		pairs = DefaultWordPairs
	}
	if picker == nil {
		picker = RandPicker{}
	}

	return &ListSource{
		Pairs:  pairs,
		Picker: picker,
	}
}

func (ls *ListSource) FetchWords(ctx context.Context) (WordPair, error) {
	if err := ctx.Err(); err != nil {
		return WordPair{}, err
	}

	if len(ls.Pairs) == 0 {
		return WordPair{}, errEmptyWordList
	}

	picked := ls.Picker.Pick(1, len(ls.Pairs))
	if len(picked) == 0 {
		return WordPair{}, errEmptyWordList
	}

	return ls.Pairs[picked[0]], nil
}
