package services

import (
	"testing"

	"khatabook/internal/ledger"
	"khatabook/internal/models"
	"khatabook/internal/testutil"
)

func TestTemplates(t *testing.T) {
	t.Run("create_and_list", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTemplateService(db)
		user := testutil.CreateTestUser(t, db)

		criteria := ledger.Criteria{
			DateRange:  &ledger.DateRange{Preset: ledger.PresetLastMonth},
			FlowTypes:  []ledger.FlowType{ledger.FlowOutgoing},
			Categories: []string{"Food"},
		}
		created, err := svc.CreateTemplate(user.ID, " Monthly food ", criteria, models.DefaultReportViews())
		testutil.AssertNoError(t, err)
		if created.Name != "Monthly food" {
			t.Errorf("expected trimmed name, got %q", created.Name)
		}

		templates, err := svc.ListTemplates(user.ID)
		testutil.AssertNoError(t, err)
		if len(templates) != 1 {
			t.Fatalf("expected 1 template, got %d", len(templates))
		}
		got := templates[0]
		if got.Criteria.DateRange == nil || got.Criteria.DateRange.Preset != ledger.PresetLastMonth {
			t.Errorf("expected criteria round trip, got %+v", got.Criteria)
		}
		if !got.Views.TrendChart {
			t.Error("expected views stored")
		}
	})

	t.Run("blank_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTemplateService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateTemplate(user.ID, "", ledger.Criteria{}, models.ReportViews{})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("delete_scoped_to_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTemplateService(db)
		owner := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)

		created, err := svc.CreateTemplate(owner.ID, "Mine", ledger.Criteria{}, models.DefaultReportViews())
		testutil.AssertNoError(t, err)

		testutil.AssertAppError(t, svc.DeleteTemplate(other.ID, created.ID), "TEMPLATE_NOT_FOUND")
		testutil.AssertNoError(t, svc.DeleteTemplate(owner.ID, created.ID))
		testutil.AssertAppError(t, svc.DeleteTemplate(owner.ID, created.ID), "TEMPLATE_NOT_FOUND")
	})
}
