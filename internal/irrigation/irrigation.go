package irrigation

import (
	"fmt"
	"math"
	"time"

	"github.com/masar-farm/masar/internal/domain"
)

const defaultIntervalDays = 3

// cropIntervals maps a crop category to the expected number of days
// between waterings. Anything not listed uses the default interval.
var cropIntervals = map[string]int{
	"زراعة منزلية": 2,
	"نباتات ظل":    2,
	"نخل":          7,
}

// Calculator derives an irrigation status from the last recorded
// watering time. The clock is injected so status is a pure function of
// its inputs.
type Calculator struct {
	now func() time.Time
}

func NewCalculator(now func() time.Time) *Calculator {
	if now == nil {
		now = time.Now
	}
	return &Calculator{now: now}
}

// Status computes the irrigation advice for one field. A field with no
// recorded watering is nudged toward recording one rather than guessed
// at.
func (c *Calculator) Status(lastWateringAt *time.Time, cropType string) domain.IrrigationStatus {
	if lastWateringAt == nil {
		return domain.IrrigationStatus{
			Tone:  domain.ToneSoon,
			Label: "لم يتم تسجيل وقت آخر ري لهذا الحقل، يُنصح بتحديث هذه المعلومة من تفاصيل الحقل.",
		}
	}

	interval := defaultIntervalDays
	if v, ok := cropIntervals[cropType]; ok {
		interval = v
	}

	elapsed := c.now().Sub(*lastWateringAt)
	daysSince := int(math.Floor(elapsed.Hours() / 24))
	daysLeft := interval - daysSince

	switch {
	case daysLeft > 1:
		return domain.IrrigationStatus{
			Tone:     domain.ToneOK,
			Label:    fmt.Sprintf("لا يحتاج ري الآن، متوقع الحاجة للري بعد حوالي %d يوم.", daysLeft),
			DaysLeft: daysLeft,
		}
	case daysLeft == 1:
		return domain.IrrigationStatus{
			Tone:     domain.ToneSoon,
			Label:    "اقترب موعد الري، يُفضّل متابعة رطوبة التربة خلال اليومين القادمين.",
			DaysLeft: daysLeft,
		}
	case daysLeft == 0:
		return domain.IrrigationStatus{
			Tone:     domain.ToneUrgent,
			Label:    "يُنصح بري هذا الحقل اليوم للحفاظ على كفاءة الري.",
			DaysLeft: 0,
		}
	default:
		return domain.IrrigationStatus{
			Tone:     domain.ToneUrgent,
			Label:    fmt.Sprintf("يبدو أن هذا الحقل متأخر عن موعد الري بحوالي %d يوم، يُنصح بريه في أقرب وقت.", -daysLeft),
			DaysLeft: daysLeft,
		}
	}
}
