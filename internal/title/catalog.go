// Package title holds the static achievement catalog and the award pass
// that evaluates it against a reconciled stats snapshot.
package title

import "time"

// Category groups titles for display.
type Category string

const (
	CategoryRoyalty    Category = "royalty"
	CategoryContinuity Category = "continuity"
	CategoryPoints     Category = "points"
	CategoryStreak     Category = "streak"
	CategoryLevel      Category = "level"
	CategoryEffort     Category = "effort"
	CategoryHidden     Category = "hidden"
)

// anniversaryThreshold is a flat 365 days of wall-clock time, no leap-year
// adjustment.
const anniversaryThreshold = 365 * 24 * time.Hour

// Snapshot is the reconciled aggregate a predicate sees. Callers must have
// already maxed the created counts against live counts and recomputed
// TotalPoints from fresh data (see the stats package); predicates never read
// storage.
type Snapshot struct {
	TotalPoints         int       `json:"total_points"`
	LoginDays           int       `json:"login_days"`
	ContinuousLoginDays int       `json:"continuous_login_days"`
	MaxStreak           int       `json:"max_streak"`
	GoalsCreatedCount   int       `json:"goals_created_count"`
	HabitsCreatedCount  int       `json:"habits_created_count"`
	GoalsAchievedCount  int       `json:"goals_achieved_count"`
	FirstLoginAt        time.Time `json:"first_login_at"`
	Now                 time.Time `json:"-"`
}

// Level derives the user level from total points: 100 points per level,
// starting at level 1.
func Level(totalPoints int) int {
	return totalPoints/100 + 1
}

// Definition is one immutable catalog entry.
type Definition struct {
	ID                   string   `json:"id"`
	Name                 string   `json:"name"`
	Category             Category `json:"category"`
	ConditionDescription string   `json:"condition_description"`
	BonusPoints          int      `json:"bonus_points"`
	Check                func(Snapshot) bool `json:"-"`
}

func loginDays(n int) func(Snapshot) bool {
	return func(s Snapshot) bool { return s.LoginDays >= n }
}

func totalPoints(n int) func(Snapshot) bool {
	return func(s Snapshot) bool { return s.TotalPoints >= n }
}

func maxStreak(n int) func(Snapshot) bool {
	return func(s Snapshot) bool { return s.MaxStreak >= n }
}

func level(n int) func(Snapshot) bool {
	return func(s Snapshot) bool { return Level(s.TotalPoints) >= n }
}

// Catalog is evaluated strictly in declaration order; the order is the only
// tie-break for newly-earned notifications and must not be re-sorted.
var Catalog = []Definition{
	{
		ID: "debut", Name: "新人デビュー", Category: CategoryRoyalty,
		ConditionDescription: "習慣を1つ以上追加する", BonusPoints: 10,
		Check: func(s Snapshot) bool { return s.HabitsCreatedCount >= 1 },
	},

	// Continuity: cumulative login days.
	{ID: "login_3", Name: "3日坊主撃破", Category: CategoryContinuity, ConditionDescription: "累計3日ログイン", BonusPoints: 30, Check: loginDays(3)},
	{ID: "login_7", Name: "1週間の壁突破", Category: CategoryContinuity, ConditionDescription: "累計7日ログイン", BonusPoints: 70, Check: loginDays(7)},
	{ID: "login_10", Name: "継続ビギナー", Category: CategoryContinuity, ConditionDescription: "累計10日ログイン", BonusPoints: 100, Check: loginDays(10)},
	{ID: "login_20", Name: "継続マスター", Category: CategoryContinuity, ConditionDescription: "累計20日ログイン", BonusPoints: 200, Check: loginDays(20)},
	{ID: "login_30", Name: "月間制覇者", Category: CategoryContinuity, ConditionDescription: "累計30日ログイン", BonusPoints: 300, Check: loginDays(30)},
	{ID: "login_100", Name: "百日修行僧", Category: CategoryContinuity, ConditionDescription: "累計100日ログイン", BonusPoints: 1000, Check: loginDays(100)},
	{ID: "login_200", Name: "習慣の求道者", Category: CategoryContinuity, ConditionDescription: "累計200日ログイン", BonusPoints: 2000, Check: loginDays(200)},
	{ID: "login_365", Name: "一年の守護者", Category: CategoryContinuity, ConditionDescription: "累計365日ログイン", BonusPoints: 3650, Check: loginDays(365)},

	// Cumulative points.
	{ID: "pt_300", Name: "猛者", Category: CategoryPoints, ConditionDescription: "累計300pt達成", BonusPoints: 50, Check: totalPoints(300)},
	{ID: "pt_700", Name: "鉄人", Category: CategoryPoints, ConditionDescription: "累計700pt達成", BonusPoints: 100, Check: totalPoints(700)},
	{ID: "pt_1000", Name: "レジェンド", Category: CategoryPoints, ConditionDescription: "累計1000pt達成", BonusPoints: 200, Check: totalPoints(1000)},
	{ID: "pt_10000", Name: "狂気", Category: CategoryPoints, ConditionDescription: "累計10000pt達成", BonusPoints: 1000, Check: totalPoints(10000)},
	{ID: "pt_20000", Name: "無限機関", Category: CategoryPoints, ConditionDescription: "累計20000pt達成", BonusPoints: 2000, Check: totalPoints(20000)},

	// Best habit streak.
	{ID: "streak_3", Name: "連続3日ストリーカー", Category: CategoryStreak, ConditionDescription: "3日連続全達成", BonusPoints: 50, Check: maxStreak(3)},
	{ID: "streak_7", Name: "7日コンボ", Category: CategoryStreak, ConditionDescription: "7日連続全達成", BonusPoints: 100, Check: maxStreak(7)},
	{ID: "streak_10", Name: "10日コンボマスター", Category: CategoryStreak, ConditionDescription: "10日連続全達成", BonusPoints: 150, Check: maxStreak(10)},
	{ID: "streak_21", Name: "連続の鬼", Category: CategoryStreak, ConditionDescription: "21日（3週間）連続全達成", BonusPoints: 300, Check: maxStreak(21)},
	{ID: "streak_30", Name: "連続神話", Category: CategoryStreak, ConditionDescription: "30日連続全達成", BonusPoints: 500, Check: maxStreak(30)},
	{ID: "streak_90", Name: "パーフェクト継続者", Category: CategoryStreak, ConditionDescription: "90日連続全達成", BonusPoints: 1000, Check: maxStreak(90)},
	{ID: "streak_210", Name: "記録ホルダー", Category: CategoryStreak, ConditionDescription: "210日連続全達成", BonusPoints: 2000, Check: maxStreak(210)},
	{ID: "streak_365", Name: "伝説のストリーク", Category: CategoryStreak, ConditionDescription: "365日連続全達成", BonusPoints: 5000, Check: maxStreak(365)},

	// Level.
	{ID: "lv_3", Name: "習慣見習い", Category: CategoryLevel, ConditionDescription: "Lv3到達", BonusPoints: 30, Check: level(3)},
	{ID: "lv_10", Name: "習慣戦士", Category: CategoryLevel, ConditionDescription: "Lv10到達", BonusPoints: 100, Check: level(10)},
	{ID: "lv_20", Name: "習慣騎士", Category: CategoryLevel, ConditionDescription: "Lv20到達", BonusPoints: 200, Check: level(20)},
	{ID: "lv_30", Name: "習慣魔導士", Category: CategoryLevel, ConditionDescription: "Lv30到達", BonusPoints: 300, Check: level(30)},
	{ID: "lv_50", Name: "習慣賢者", Category: CategoryLevel, ConditionDescription: "Lv50到達", BonusPoints: 500, Check: level(50)},
	{ID: "lv_60", Name: "習慣マスター", Category: CategoryLevel, ConditionDescription: "Lv60到達", BonusPoints: 600, Check: level(60)},
	{ID: "lv_100", Name: "グランドマスター", Category: CategoryLevel, ConditionDescription: "Lv100到達", BonusPoints: 1000, Check: level(100)},

	// Effort: creation and achievement counters.
	{
		ID: "effort_goal_50", Name: "生活設計士", Category: CategoryEffort,
		ConditionDescription: "目標を累計50個追加", BonusPoints: 100,
		Check: func(s Snapshot) bool { return s.GoalsCreatedCount >= 50 },
	},
	{
		ID: "effort_goal_100", Name: "人生ビルダー", Category: CategoryEffort,
		ConditionDescription: "目標を累計100個追加", BonusPoints: 200,
		Check: func(s Snapshot) bool { return s.GoalsCreatedCount >= 100 },
	},
	{
		ID: "effort_habit_50", Name: "習慣設計師", Category: CategoryEffort,
		ConditionDescription: "習慣を累計50個追加", BonusPoints: 100,
		Check: func(s Snapshot) bool { return s.HabitsCreatedCount >= 50 },
	},
	{
		ID: "effort_habit_100", Name: "自己統制者", Category: CategoryEffort,
		ConditionDescription: "習慣を累計100個追加", BonusPoints: 200,
		Check: func(s Snapshot) bool { return s.HabitsCreatedCount >= 100 },
	},
	{
		ID: "effort_goal_achieve_100", Name: "鋼の意思", Category: CategoryEffort,
		ConditionDescription: "目標を累計100個達成", BonusPoints: 500,
		Check: func(s Snapshot) bool { return s.GoalsAchievedCount >= 100 },
	},

	// Hidden.
	{
		ID: "login_streak_90", Name: "3ヶ月皆勤", Category: CategoryHidden,
		ConditionDescription: "90日連続ログイン", BonusPoints: 1000,
		Check: func(s Snapshot) bool { return s.ContinuousLoginDays >= 90 },
	},
	{
		ID: "anniversary_1", Name: "初ログインから365日", Category: CategoryHidden,
		ConditionDescription: "利用開始から1年経過", BonusPoints: 3650,
		Check: func(s Snapshot) bool {
			if s.FirstLoginAt.IsZero() {
				return false
			}
			return s.Now.Sub(s.FirstLoginAt) >= anniversaryThreshold
		},
	},
}

// ByID returns the catalog entry with the given id, or nil.
func ByID(id string) *Definition {
	for i := range Catalog {
		if Catalog[i].ID == id {
			return &Catalog[i]
		}
	}
	return nil
}
