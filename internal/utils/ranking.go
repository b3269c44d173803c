package utils

import (
	"math"
	"time"
)

type RankConfig struct {
	Gravity        float64 // 时间重力 (1.5)
	WeightComment  float64 // 2.0
	WeightUpvote   float64 // 1.0
	WeightDownvote float64 // 1.5
	ScaleFactor    float64 // 放大系数 (100)
}

var DefaultConfig = RankConfig{
	Gravity:        1.5,
	WeightComment:  2.0,
	WeightUpvote:   1.0,
	WeightDownvote: 1.5,
	ScaleFactor:    100.0,
}

// CalculateScore 帖子 / 议题热度：对数平滑的加权互动值除以时间衰减
func CalculateScore(createdAt time.Time, up, down, comments int) float64 {
	return DefaultConfig.Score(time.Since(createdAt), up, down, comments)
}

func (cfg RankConfig) Score(age time.Duration, up, down, comments int) float64 {
	hours := age.Hours()
	if hours < 0 {
		hours = 0
	}

	weightedSum := float64(up)*cfg.WeightUpvote +
		float64(comments)*cfg.WeightComment -
		float64(down)*cfg.WeightDownvote
	if weightedSum < 0 {
		weightedSum = 0 // 防止负数无法取对数
	}

	// log10(sum + 1) 确保 sum=0 时结果为 0
	numerator := math.Log10(weightedSum+1) * cfg.ScaleFactor
	decay := math.Pow(hours+2, cfg.Gravity)
	return numerator / decay
}
