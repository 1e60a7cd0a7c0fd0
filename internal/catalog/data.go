// Dishpick - Dish Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dishpick

package catalog

import "net/url"

// Display colors used by the web client for each tag category.
const (
	colorBlue   = "bg-blue-100 text-blue-800"
	colorGreen  = "bg-green-100 text-green-800"
	colorYellow = "bg-yellow-100 text-yellow-800"
	colorPurple = "bg-purple-100 text-purple-800"
	colorRed    = "bg-red-100 text-red-800"
	colorGray   = "bg-gray-100 text-gray-800"
	colorPink   = "bg-pink-100 text-pink-800"
)

const (
	warnHighFat   = "高脂肪食物，适量食用"
	warnHighCarbs = "高碳水食物，适量食用"
)

func imageURL(prompt string) string {
	return "https://space.coze.cn/api/coze_space/gen_image?image_size=square&prompt=" + url.QueryEscape(prompt)
}

func warning(s string) *string { return &s }

func steps(s ...string) []RecipeStep {
	out := make([]RecipeStep, len(s))
	for i := range s {
		out[i] = RecipeStep{Step: s[i]}
	}
	return out
}

// cantonese builds the common tag set of the Cantonese dishes.
func cantonese(flavor, method, difficulty string, ingredients ...Tag) []Tag {
	tags := []Tag{
		{Type: TagCuisine, Value: "粤菜", Color: colorBlue},
		{Type: TagFlavor, Value: flavor, Color: colorGreen},
		{Type: TagMethod, Value: method, Color: colorYellow},
		{Type: TagDifficulty, Value: difficulty, Color: colorPurple},
	}
	return append(tags, ingredients...)
}

func ingredient(v string) Tag { return Tag{Type: TagIngredient, Value: v, Color: colorRed} }

func bundledDishes() []Dish {
	return []Dish{
		{
			ID:        "fd-liquid-2",
			Name:      "蔬菜汁",
			Image:     imageURL("fresh vegetable juice in a glass"),
			Desc:      "过滤蔬菜汁，提供维生素且不刺激胃",
			Nutrition: &Nutrition{Calories: 80, Protein: 1, Fat: 0, Carbs: 18, Level: LevelGreen},
			Safety:    &Safety{Warning: warning("避免高纤维蔬菜如芹菜"), WaterIndex: 5},
			Tags: []Tag{
				{Type: TagDietType, Value: "流质", Color: colorBlue},
				{Type: TagMedicalCondition, Value: "功能性消化不良", Color: colorPurple},
			},
		},
		{
			ID:    "gd-1",
			Name:  "白切鸡",
			Image: imageURL("authentic cantonese white cut chicken with ginger scallion sauce"),
			Desc:  "广东经典名菜，皮爽肉滑，原汁原味",
			Recipe: &Recipe{
				URL: "/recipe/white-cut-chicken",
				Steps: steps(
					"整鸡洗净，去除内脏",
					"水烧开后放入鸡，小火浸煮20分钟",
					"捞出后立即放入冰水冷却",
					"斩件摆盘，配姜葱蘸料",
				),
			},
			Nutrition: &Nutrition{Calories: 350, Protein: 40, Fat: 18, Carbs: 2, Level: LevelGreen},
			Safety:    &Safety{WaterIndex: 3},
			Tags:      cantonese("鲜香", "煮", "中级", ingredient("鸡肉")),
		},
		{
			ID:    "gd-2",
			Name:  "老火靓汤",
			Image: imageURL("cantonese slow-cooked soup with pork bones and herbs"),
			Desc:  "广东传统汤品，慢火熬制，营养丰富",
			Recipe: &Recipe{
				URL: "/recipe/cantonese-soup",
				Steps: steps(
					"猪骨焯水去血沫",
					"加入药材和清水",
					"大火煮沸后转小火慢炖3小时",
					"最后加盐调味",
				),
			},
			Nutrition: &Nutrition{Calories: 280, Protein: 15, Fat: 12, Carbs: 8, Level: LevelGreen},
			Safety:    &Safety{WaterIndex: 4},
			Tags:      cantonese("清甜", "炖", "初级", ingredient("猪骨")),
		},
		{
			ID:    "gd-3",
			Name:  "豉汁蒸排骨",
			Image: imageURL("cantonese steamed pork ribs with black bean sauce"),
			Desc:  "经典粤式蒸菜，排骨嫩滑，豉香浓郁",
			Recipe: &Recipe{
				URL: "/recipe/steamed-ribs",
				Steps: steps(
					"排骨切小块，清水浸泡去血水",
					"加入豆豉、蒜末、调料腌制",
					"大火蒸15分钟",
					"撒葱花出锅",
				),
			},
			Nutrition: &Nutrition{Calories: 320, Protein: 25, Fat: 22, Carbs: 5, Level: LevelYellow},
			Safety:    &Safety{WaterIndex: 3},
			Tags: cantonese("咸香", "蒸", "初级",
				ingredient("排骨"),
				Tag{Type: TagIngredient, Value: "豆豉", Color: colorGray},
			),
		},
		{
			ID:    "gd-4",
			Name:  "清蒸鲈鱼",
			Image: imageURL("cantonese steamed sea bass with ginger and scallion"),
			Desc:  "广东经典蒸鱼，鱼肉鲜嫩，原汁原味",
			Recipe: &Recipe{
				URL: "/recipe/steamed-bass",
				Steps: steps(
					"鲈鱼洗净，去除内脏",
					"鱼身两面切花刀",
					"放入姜片和葱段",
					"大火蒸8-10分钟",
				),
			},
			Nutrition: &Nutrition{Calories: 280, Protein: 35, Fat: 12, Carbs: 2, Level: LevelGreen},
			Safety:    &Safety{WaterIndex: 3},
			Tags:      cantonese("鲜美", "蒸", "初级", ingredient("鲈鱼")),
		},
		{
			ID:    "gd-5",
			Name:  "蚝油生菜",
			Image: imageURL("cantonese lettuce with oyster sauce"),
			Desc:  "广东家常素菜，生菜脆嫩，蚝油鲜美",
			Recipe: &Recipe{
				URL: "/recipe/oyster-sauce-lettuce",
				Steps: steps(
					"生菜洗净焯水",
					"热锅爆香蒜末",
					"加入蚝油和调味料",
					"淋在生菜上",
				),
			},
			Nutrition: &Nutrition{Calories: 120, Protein: 3, Fat: 5, Carbs: 15, Level: LevelGreen},
			Safety:    &Safety{WaterIndex: 2},
			Tags:      cantonese("咸鲜", "炒", "初级", ingredient("生菜")),
		},
		{
			ID:    "gd-6",
			Name:  "烧鹅",
			Image: imageURL("cantonese roast goose with crispy skin"),
			Desc:  "广东传统烧腊，皮脆肉嫩，香气四溢",
			Recipe: &Recipe{
				URL: "/recipe/roast-goose",
				Steps: steps(
					"鹅处理干净，腌制入味",
					"挂炉烤制，刷蜜糖水",
					"烤至皮色金黄",
					"斩件装盘",
				),
			},
			Nutrition: &Nutrition{Calories: 450, Protein: 35, Fat: 32, Carbs: 5, Level: LevelYellow},
			Safety:    &Safety{Warning: warning(warnHighFat), WaterIndex: 3},
			Tags:      cantonese("香脆", "烤", "高级", ingredient("鹅肉")),
		},
		{
			ID:    "gd-7",
			Name:  "叉烧",
			Image: imageURL("cantonese char siu barbecue pork"),
			Desc:  "广式烧烤猪肉，甜咸适中，外焦里嫩",
			Recipe: &Recipe{
				URL: "/recipe/char-siu",
				Steps: steps(
					"猪肉腌制24小时",
					"烤箱200度烤制30分钟",
					"刷蜜糖水再烤10分钟",
				),
			},
			Nutrition: &Nutrition{Calories: 380, Protein: 30, Fat: 25, Carbs: 8, Level: LevelYellow},
			Safety:    &Safety{Warning: warning(warnHighFat), WaterIndex: 2},
			Tags:      cantonese("甜咸", "烤", "中级", ingredient("猪肉")),
		},
		{
			ID:    "gd-8",
			Name:  "煲仔饭",
			Image: imageURL("cantonese clay pot rice with cured meat"),
			Desc:  "砂锅煮饭，底部有金黄锅巴，配料丰富",
			Recipe: &Recipe{
				URL: "/recipe/clay-pot-rice",
				Steps: steps(
					"米洗净浸泡30分钟",
					"砂锅底部抹油",
					"加入米和水煮至半熟",
					"铺上腊味等配料焖熟",
				),
			},
			Nutrition: &Nutrition{Calories: 450, Protein: 20, Fat: 15, Carbs: 60, Level: LevelYellow},
			Safety:    &Safety{Warning: warning(warnHighCarbs), WaterIndex: 3},
			Tags: cantonese("香浓", "焖", "中级",
				Tag{Type: TagIngredient, Value: "米饭", Color: colorGray},
			),
		},
	}
}
