package metrics_test

import (
	"fmt"
	"time"

	"github.com/updatelens/updatelens/pkg/dataset"
)

// ms builds measures in demo, bio, enrol column order.
func ms(demoChild, demoAdult, bioChild, bioAdult, enrolInfant, enrolChild, enrolAdult int64) dataset.Measures {
	return dataset.Measures{
		DemoChild: demoChild, DemoAdult: demoAdult,
		BioChild: bioChild, BioAdult: bioAdult,
		EnrolInfant: enrolInfant, EnrolChild: enrolChild, EnrolAdult: enrolAdult,
	}
}

// fixtureStore has three states:
//
//	West Bengal: demo 300, bio 99, enrol 30   (BAI exactly 3.0)
//	Kerala:      demo 40,  bio 80, enrol 600
//	Assam:       demo 500, bio 99, enrol 0    (BAI 5.0)
func fixtureStore() *dataset.Store {
	state := dataset.NewTable(dataset.KindStateSummary, []dataset.Record{
		{State: "West Bengal", Measures: ms(100, 200, 50, 49, 10, 10, 10)},
		{State: "Kerala", Measures: ms(20, 20, 40, 40, 200, 200, 200)},
		{State: "Assam", Measures: ms(250, 250, 0, 99, 0, 0, 0)},
	})
	district := dataset.NewTable(dataset.KindDistrictSummary, []dataset.Record{
		{State: "West Bengal", District: "Kolkata", Measures: ms(100, 100, 30, 30, 5, 5, 5)},
		{State: "West Bengal", District: "Howrah", Measures: ms(0, 100, 20, 19, 5, 5, 5)},
		{State: "Kerala", District: "Kochi", Measures: ms(20, 20, 40, 40, 200, 200, 200)},
		{State: "Assam", District: "Guwahati", Measures: ms(150, 150, 0, 50, 0, 0, 0)},
		{State: "Assam", District: "Dibrugarh", Measures: ms(100, 100, 0, 49, 0, 0, 0)},
	})

	// Twelve months for West Bengal and Kerala; Assam only has three.
	var monthly []dataset.Record
	for i := 1; i <= 12; i++ {
		month := fmt.Sprintf("2025-%02d", i)
		wb := int64(10)
		if i == 12 {
			wb = 60
		}
		monthly = append(monthly,
			dataset.Record{State: "West Bengal", District: "Kolkata", Month: month, Measures: ms(0, wb, 1, 1, 0, 0, 0)},
			dataset.Record{State: "Kerala", District: "Kochi", Month: month, Measures: ms(0, 10, 1, 1, 0, 0, 0)},
		)
	}
	for i := 1; i <= 3; i++ {
		monthly = append(monthly, dataset.Record{
			State: "Assam", District: "Guwahati", Month: fmt.Sprintf("2025-%02d", i), Measures: ms(0, 5, 0, 1, 0, 0, 0),
		})
	}

	return &dataset.Store{
		State:    state,
		District: district,
		Monthly:  dataset.NewTable(dataset.KindMonthlySummary, monthly),
		Daily:    dataset.NewTable(dataset.KindDistrictDaily, nil),
	}
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func stateStore(records ...dataset.Record) *dataset.Store {
	return &dataset.Store{State: dataset.NewTable(dataset.KindStateSummary, records)}
}
