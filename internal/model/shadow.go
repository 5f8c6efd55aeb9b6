package model

// Grade is the quality tier of an extracted shadow.
type Grade string

const (
	GradeNormal   Grade = "Normal"
	GradeRare     Grade = "Rare"
	GradeElite    Grade = "Elite"
	GradeUnique   Grade = "Unique"
	GradeLegend   Grade = "Legend"
	GradeMyth     Grade = "Myth"
	GradeNational Grade = "National"
)

// ShadowStats are the combat stats of a shadow soldier.
type ShadowStats struct {
	HP      int `json:"hp"`
	Attack  int `json:"attack"`
	Defense int `json:"defense"`
}

// Shadow is a companion extracted from a defeated monster.
type Shadow struct {
	Name       string      `json:"name"`
	Grade      Grade       `json:"grade"`
	Level      int         `json:"level"`
	Experience int         `json:"exp"`
	Stats      ShadowStats `json:"stats"`
}

// NewShadow creates a level 1 shadow with half of the source monster's stats.
func NewShadow(source *MonsterTemplate, grade Grade) Shadow {
	return Shadow{
		Name:  source.Name,
		Grade: grade,
		Level: 1,
		Stats: ShadowStats{
			HP:      source.HP / 2,
			Attack:  source.Attack / 2,
			Defense: source.Defense / 2,
		},
	}
}
