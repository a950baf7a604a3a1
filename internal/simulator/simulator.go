package simulator

import (
	"math"
	"math/rand/v2"
	"sync"

	"healthsync/internal/models"
)

// FieldPolicy способ обновления поля на тике
type FieldPolicy int

const (
	// Static значение переносится из предыдущего снимка
	Static FieldPolicy = iota
	// RandomWalk предыдущее значение плюс равномерный шаг
	RandomWalk
	// IndependentDraw новое значение в пределах домена поля
	IndependentDraw
)

func (p FieldPolicy) String() string {
	switch p {
	case Static:
		return "static"
	case RandomWalk:
		return "random_walk"
	case IndependentDraw:
		return "independent_draw"
	default:
		return "unknown"
	}
}

// Field поле снимка
type Field string

const (
	FieldHeartRate   Field = "heart_rate"
	FieldSpO2        Field = "spo2"
	FieldTemperature Field = "temperature"
	FieldSystolic    Field = "systolic"
	FieldDiastolic   Field = "diastolic"
	FieldSteps       Field = "steps"
	FieldSleepHours  Field = "sleep_hours"
	FieldStressLevel Field = "stress_level"
	FieldHRV         Field = "hrv"
	FieldCalories    Field = "calories"
	FieldHydration   Field = "hydration"
)

// Fields все поля в порядке применения политики
var Fields = []Field{
	FieldHeartRate, FieldSpO2, FieldTemperature, FieldSystolic, FieldDiastolic,
	FieldSteps, FieldSleepHours, FieldStressLevel, FieldHRV, FieldCalories, FieldHydration,
}

// Policy политика по полям; отсутствующее поле считается Static
type Policy map[Field]FieldPolicy

// LivePolicy политика живого тика: пульс и HRV блуждают, SpO2 перевыбирается, остальное переносится
func LivePolicy() Policy {
	return Policy{
		FieldHeartRate: RandomWalk,
		FieldSpO2:      IndependentDraw,
		FieldHRV:       RandomWalk,
	}
}

// ResamplePolicy полный перевыбор всех полей (серии для графиков)
func ResamplePolicy() Policy {
	p := make(Policy, len(Fields))
	for _, f := range Fields {
		p[f] = IndependentDraw
	}
	return p
}

// domain диапазон независимой выборки [lo, hi); decimals > 0 означает дробное поле
type domain struct {
	lo, hi   float64
	decimals int
	step     float64 // полуширина шага случайного блуждания
}

var domains = map[Field]domain{
	FieldHeartRate:   {lo: 55, hi: 101, step: 10},
	FieldSpO2:        {lo: 97.0, hi: 100.0, decimals: 1, step: 0.5},
	FieldTemperature: {lo: 36.4, hi: 37.6, decimals: 1, step: 0.2},
	FieldSystolic:    {lo: 108, hi: 139, step: 5},
	FieldDiastolic:   {lo: 68, hi: 91, step: 4},
	FieldSteps:       {lo: 0, hi: 12000, step: 500},
	FieldSleepHours:  {lo: 5.5, hi: 8.5, decimals: 1, step: 0.5},
	FieldStressLevel: {lo: 20, hi: 80, step: 5},
	FieldHRV:         {lo: 40, hi: 80, step: 3},
	FieldCalories:    {lo: 1800, hi: 3000, step: 100},
	FieldHydration:   {lo: 4, hi: 9, step: 1},
}

// Simulator генератор снимков. Собственного снимка не хранит: предыдущий передает вызывающий.
type Simulator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulator создает симулятор с заданным seed
func NewSimulator(seed uint64) *Simulator {
	return NewSimulatorWithRand(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// NewSimulatorWithRand создает симулятор с внешним источником случайности
func NewSimulatorWithRand(rng *rand.Rand) *Simulator {
	return &Simulator{rng: rng}
}

// Tick следующий снимок живого потока. prev == nil означает первый тик.
func (s *Simulator) Tick(prev *models.VitalsSnapshot) models.VitalsSnapshot {
	base := models.DefaultSnapshot()
	if prev != nil {
		base = *prev
	}
	return s.Apply(base, LivePolicy())
}

// Resample независимая выборка всех полей
func (s *Simulator) Resample() models.VitalsSnapshot {
	return s.Apply(models.DefaultSnapshot(), ResamplePolicy())
}

// Series набор независимых снимков для недельных/месячных графиков
func (s *Simulator) Series(points int) []models.VitalsSnapshot {
	if points <= 0 {
		return []models.VitalsSnapshot{}
	}
	series := make([]models.VitalsSnapshot, points)
	for i := range series {
		series[i] = s.Resample()
	}
	return series
}

// Apply применяет политику к каждому полю prev и возвращает новый снимок
func (s *Simulator) Apply(prev models.VitalsSnapshot, policy Policy) models.VitalsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := prev
	for _, f := range Fields {
		p := policy[f]
		if p == Static {
			continue
		}
		d := domains[f]
		switch f {
		case FieldHeartRate:
			next.HeartRate = s.nextInt(prev.HeartRate, d, p)
		case FieldSpO2:
			next.SpO2 = s.nextFloat(prev.SpO2, d, p)
		case FieldTemperature:
			next.Temperature = s.nextFloat(prev.Temperature, d, p)
		case FieldSystolic:
			next.BloodPressure.Systolic = s.nextInt(prev.BloodPressure.Systolic, d, p)
		case FieldDiastolic:
			next.BloodPressure.Diastolic = s.nextInt(prev.BloodPressure.Diastolic, d, p)
		case FieldSteps:
			next.Steps = s.nextInt(prev.Steps, d, p)
		case FieldSleepHours:
			next.SleepHours = s.nextFloat(prev.SleepHours, d, p)
		case FieldStressLevel:
			next.StressLevel = s.nextInt(prev.StressLevel, d, p)
		case FieldHRV:
			next.HRV = s.nextInt(prev.HRV, d, p)
		case FieldCalories:
			next.Calories = s.nextInt(prev.Calories, d, p)
		case FieldHydration:
			next.Hydration = s.nextInt(prev.Hydration, d, p)
		}
	}
	return next
}

// nextInt целочисленное поле; блуждание без ограничения диапазона
func (s *Simulator) nextInt(prev int, d domain, p FieldPolicy) int {
	if p == RandomWalk {
		return int(math.Floor(float64(prev) + s.uniform(-d.step, d.step)))
	}
	return int(d.lo) + s.rng.IntN(int(d.hi-d.lo))
}

// nextFloat дробное поле с округлением до d.decimals знаков
func (s *Simulator) nextFloat(prev float64, d domain, p FieldPolicy) float64 {
	if p == RandomWalk {
		return round(prev+s.uniform(-d.step, d.step), d.decimals)
	}
	return round(s.uniform(d.lo, d.hi), d.decimals)
}

func (s *Simulator) uniform(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}

func round(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(v*scale) / scale
}
