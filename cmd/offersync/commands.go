package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"campus-rentals/internal/format"
	"campus-rentals/internal/models"
	"campus-rentals/internal/offers"

	"go.uber.org/zap"
)

const usage = `usage: offersync [command]

commands:
  list                                        print the filtered offers once
  mine                                        print offers you published
  saved                                       print offers you saved
  save <offer-id>                             save an offer
  unsave <offer-id>                           remove a saved offer
  filter <start> <end> <min> <max> <minutes>  store filter criteria, dates as 2006-01-02
  filter clear                                drop stored filter criteria

Without a command the listing is printed and kept fresh until interrupted.`

func (a *app) runCommand(ctx context.Context, cmd string, args []string) error {
	err := a.dispatch(ctx, cmd, args)
	if errors.Is(err, offers.ErrNotSignedIn) {
		return fmt.Errorf("set USER_ID: %w", err)
	}
	return err
}

func (a *app) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "list":
		return a.list(ctx)
	case "mine":
		records, err := a.service.OwnerOffers(ctx, a.cfg.UserID)
		if err != nil {
			return err
		}
		fmt.Print(format.List(records, nil, !a.gate.Online()))
		return nil
	case "saved":
		records, err := a.service.SavedOffers(ctx, a.cfg.UserID)
		if err != nil {
			return err
		}
		marks := make(map[string]bool, len(records))
		for _, r := range records {
			marks[r.ID] = true
		}
		fmt.Print(format.List(records, marks, !a.gate.Online()))
		return nil
	case "save", "unsave":
		if len(args) != 1 {
			return errors.New(usage)
		}
		if cmd == "save" {
			return a.service.SaveOffer(ctx, a.cfg.UserID, args[0])
		}
		return a.service.UnsaveOffer(ctx, a.cfg.UserID, args[0])
	case "filter":
		return a.filter(ctx, args)
	default:
		return errors.New(usage)
	}
}

func (a *app) list(ctx context.Context) error {
	criteria, err := a.store.LoadCriteria(ctx, a.cfg.ProfileID, time.Now(), a.cfg.Location)
	if err != nil {
		a.log.Warn("using default filter criteria", zap.Error(err))
	}

	listing := a.service.List(ctx, criteria)

	var saved map[string]bool
	if a.cfg.UserID != "" {
		saved, err = a.service.SavedAmong(ctx, a.cfg.UserID, listing.Offers)
		if err != nil {
			a.log.Warn("failed to load saved marks", zap.Error(err))
		}

		if n, err := a.store.CountSavedOffers(ctx, a.cfg.UserID); err == nil {
			a.log.Info("saved offers", zap.String("user_id", a.cfg.UserID), zap.Int("count", n))
		}
	}

	fmt.Print(format.Criteria(criteria))
	fmt.Print(format.List(listing.Offers, saved, listing.FromCache))
	return nil
}

func (a *app) filter(ctx context.Context, args []string) error {
	if len(args) == 1 && args[0] == "clear" {
		return a.store.ClearCriteria(ctx, a.cfg.ProfileID)
	}

	criteria, err := parseCriteria(args, a.cfg.Location)
	if err != nil {
		return err
	}

	if err := a.store.SaveCriteria(ctx, a.cfg.ProfileID, criteria); err != nil {
		return err
	}

	fmt.Print(format.Criteria(criteria))
	return nil
}

func parseCriteria(args []string, loc *time.Location) (models.FilterCriteria, error) {
	if len(args) != 5 {
		return models.FilterCriteria{}, errors.New(usage)
	}

	start, err := time.ParseInLocation("2006-01-02", args[0], loc)
	if err != nil {
		return models.FilterCriteria{}, fmt.Errorf("invalid start date: %w", err)
	}
	end, err := time.ParseInLocation("2006-01-02", args[1], loc)
	if err != nil {
		return models.FilterCriteria{}, fmt.Errorf("invalid end date: %w", err)
	}
	minPrice, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return models.FilterCriteria{}, fmt.Errorf("invalid min price: %w", err)
	}
	maxPrice, err := strconv.ParseFloat(args[3], 64)
	if err != nil {
		return models.FilterCriteria{}, fmt.Errorf("invalid max price: %w", err)
	}
	minutes, err := strconv.Atoi(args[4])
	if err != nil {
		return models.FilterCriteria{}, fmt.Errorf("invalid minutes: %w", err)
	}

	if end.Before(start) {
		return models.FilterCriteria{}, fmt.Errorf("end date is before start date")
	}
	if minPrice < 0 || maxPrice < minPrice {
		return models.FilterCriteria{}, fmt.Errorf("invalid price range")
	}
	if minutes < 0 {
		return models.FilterCriteria{}, fmt.Errorf("minutes must not be negative")
	}

	return models.FilterCriteria{
		StartDate:            start,
		EndDate:              end,
		MinPrice:             minPrice,
		MaxPrice:             maxPrice,
		MaxMinutesFromCampus: minutes,
		Applied:              true,
	}, nil
}
