package services

import (
	"context"
	"testing"

	"iptvsite/internal/apperr"
	"iptvsite/internal/models"
)

func TestCreatePlanTrimsAndValidates(t *testing.T) {
	repo := &mockPlanRepo{}
	svc := NewPlanService(repo)
	ctx := context.Background()

	if _, err := svc.Create(ctx, models.CreatePlanRequest{DeviceTab: "1 Device", Name: " ", Price: "9.99"}); apperr.Message(err, "") != "device_tab, name, and price are required" {
		t.Fatalf("missing name: %v", err)
	}

	p, err := svc.Create(ctx, models.CreatePlanRequest{
		DeviceTab: " 1 Device ",
		Name:      "1 Month",
		Price:     " 9.99",
		BuyLink:   ptr("   "),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.DeviceTab != "1 Device" || p.Price != "9.99" || p.BuyLink != nil {
		t.Fatalf("unexpected plan: %+v", p)
	}
}

func TestUpdatePlan(t *testing.T) {
	repo := &mockPlanRepo{}
	svc := NewPlanService(repo)
	ctx := context.Background()
	p, _ := svc.Create(ctx, models.CreatePlanRequest{DeviceTab: "1 Device", Name: "1 Month", Price: "9.99"})

	if _, err := svc.Update(ctx, p.ID, models.UpdatePlanRequest{}); apperr.Message(err, "") != "No fields to update" {
		t.Fatalf("empty update: %v", err)
	}
	if _, err := svc.Update(ctx, p.ID, models.UpdatePlanRequest{Price: ptr("")}); apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("blank price: %v", err)
	}
	if _, err := svc.Update(ctx, 42, models.UpdatePlanRequest{IsFeatured: ptr(true)}); apperr.Message(err, "") != "Plan not found" {
		t.Fatalf("missing plan: %v", err)
	}

	up, err := svc.Update(ctx, p.ID, models.UpdatePlanRequest{IsFeatured: ptr(true)})
	if err != nil || !up.IsFeatured || up.Name != "1 Month" {
		t.Fatalf("partial update: %+v %v", up, err)
	}
}

func TestDeviceTabLifecycle(t *testing.T) {
	repo := &mockPlanRepo{}
	svc := NewPlanService(repo)
	ctx := context.Background()

	name, err := svc.CreateTab(ctx, "  2 Devices ")
	if err != nil || name != "2 Devices" {
		t.Fatalf("create tab: %q %v", name, err)
	}
	plans, _ := svc.List(ctx, "2 Devices")
	if len(plans) != 1 || plans[0].Name != "New Plan" || plans[0].Price != "0" || len(plans[0].Features) != 2 {
		t.Fatalf("placeholder plan: %+v", plans)
	}
	if _, err := svc.CreateTab(ctx, "2 Devices"); apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("duplicate tab: %v", err)
	}

	_, _ = svc.CreateTab(ctx, "3 Devices")
	if err := svc.RenameTab(ctx, "2 Devices", "3 Devices"); apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("rename onto existing tab: %v", err)
	}
	if err := svc.RenameTab(ctx, "2 Devices", "2 Devices"); err != nil {
		t.Fatalf("rename to same name: %v", err)
	}
	if err := svc.RenameTab(ctx, "Missing", "x"); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("rename missing: %v", err)
	}
	if err := svc.RenameTab(ctx, "2 Devices", "Two Devices"); err != nil {
		t.Fatalf("rename: %v", err)
	}

	tabs, _ := svc.ListTabs(ctx)
	if len(tabs) != 2 || tabs[0] != "3 Devices" || tabs[1] != "Two Devices" {
		t.Fatalf("tabs = %v", tabs)
	}

	if err := svc.DeleteTab(ctx, "Two Devices"); err != nil {
		t.Fatalf("delete tab: %v", err)
	}
	if err := svc.DeleteTab(ctx, "Two Devices"); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("delete missing tab: %v", err)
	}
	if all, _ := svc.List(ctx, ""); len(all) != 1 {
		t.Fatalf("plans left = %d", len(all))
	}
}
