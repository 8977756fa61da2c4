package match

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"amora-be/internal/domain"
)

func profileWith(interests []string, alcohol string) *domain.Profile {
	return &domain.Profile{
		Interests: interests,
		Lifestyle: domain.Lifestyle{Alcohol: alcohol},
	}
}

func TestScore_Components(t *testing.T) {
	tests := []struct {
		name            string
		type1, type2    string
		profile1        *domain.Profile
		profile2        *domain.Profile
		wantPersonality int
		wantInterests   int
		wantLifestyle   int
		wantOverall     int
	}{
		{
			name:            "maximal pair caps below 100",
			type1:           "explorer",
			type2:           "catalyst",
			profile1:        profileWith([]string{"hiking", "film"}, "socially"),
			profile2:        profileWith([]string{"hiking", "film"}, "socially"),
			wantPersonality: 100,
			wantInterests:   100,
			wantLifestyle:   90,
			wantOverall:     98,
		},
		{
			name:            "reversed table lookup is commutative",
			type1:           "catalyst",
			type2:           "explorer",
			profile1:        profileWith(nil, ""),
			profile2:        profileWith(nil, ""),
			wantPersonality: 100,
			wantInterests:   50,
			wantLifestyle:   80,
			wantOverall:     81,
		},
		{
			name:            "unknown types default to 70",
			type1:           "stargazer",
			type2:           "wanderer",
			profile1:        profileWith(nil, ""),
			profile2:        profileWith(nil, ""),
			wantPersonality: 70,
			wantInterests:   50,
			wantLifestyle:   80,
			wantOverall:     66,
		},
		{
			name:            "disjoint non-empty interests score exactly 50",
			type1:           "anchor",
			type2:           "anchor",
			profile1:        profileWith([]string{"cooking", "yoga"}, ""),
			profile2:        profileWith([]string{"climbing", "chess"}, ""),
			wantPersonality: 80,
			wantInterests:   50,
			wantLifestyle:   80,
			wantOverall:     71,
		},
		{
			name:            "partial overlap scales by larger set",
			type1:           "anchor",
			type2:           "harmonizer",
			profile1:        profileWith([]string{"cooking", "yoga", "film", "travel"}, "never"),
			profile2:        profileWith([]string{"cooking", "travel"}, "socially"),
			wantPersonality: 95,
			wantInterests:   50, // 100 * 2 / 4
			wantLifestyle:   80,
			wantOverall:     79,
		},
		{
			name:            "matching alcohol preference adds lifestyle bonus",
			type1:           "harmonizer",
			type2:           "harmonizer",
			profile1:        profileWith([]string{"film"}, "never"),
			profile2:        profileWith([]string{"film"}, "never"),
			wantPersonality: 85,
			wantInterests:   100,
			wantLifestyle:   90,
			wantOverall:     91,
		},
		{
			name:            "empty alcohol on both sides gets no bonus",
			type1:           "harmonizer",
			type2:           "harmonizer",
			profile1:        profileWith([]string{"film"}, ""),
			profile2:        profileWith([]string{"film"}, ""),
			wantPersonality: 85,
			wantInterests:   100,
			wantLifestyle:   80,
			wantOverall:     89,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := Score(tt.type1, tt.type2, tt.profile1, tt.profile2)

			assert.Equal(t, tt.wantPersonality, score.Personality, "personality component")
			assert.Equal(t, tt.wantInterests, score.Interests, "interest component")
			assert.Equal(t, tt.wantLifestyle, score.Lifestyle, "lifestyle component")
			assert.Equal(t, tt.wantOverall, score.Overall, "overall")
		})
	}
}

func TestScore_OverallBounds(t *testing.T) {
	types := []string{"explorer", "anchor", "catalyst", "harmonizer", "unknown", ""}
	interestSets := [][]string{nil, {"a"}, {"a", "b", "c"}, {"x", "y"}}
	alcohol := []string{"", "never", "socially"}

	for _, t1 := range types {
		for _, t2 := range types {
			for _, i1 := range interestSets {
				for _, i2 := range interestSets {
					for _, a1 := range alcohol {
						for _, a2 := range alcohol {
							score := Score(t1, t2, profileWith(i1, a1), profileWith(i2, a2))
							assert.GreaterOrEqual(t, score.Overall, 0)
							assert.LessOrEqual(t, score.Overall, 99)
						}
					}
				}
			}
		}
	}
}
