package regionfetcher

import (
	"context"
	"fmt"
	"marketplace-service/internal/constants"
	"marketplace-service/internal/contextkeys"
	"marketplace-service/internal/contracts"
	"marketplace-service/internal/core/domain"
	"marketplace-service/internal/core/port"

	"github.com/gocolly/colly/v2"
)

// resourcePath возвращает путь ресурса для уровня. У провинций родителя нет,
// у остальных уровней ключом служит id непосредственного родителя.
func resourcePath(level domain.RegionLevel, parentID string) (string, error) {
	switch level {
	case domain.LevelProvince:
		return constants.ProvincesPath, nil
	case domain.LevelCity:
		if parentID == "" {
			return "", domain.ErrParentRequired
		}
		return fmt.Sprintf(constants.CitiesPath, parentID), nil
	case domain.LevelDistrict:
		if parentID == "" {
			return "", domain.ErrParentRequired
		}
		return fmt.Sprintf(constants.DistrictsPath, parentID), nil
	case domain.LevelSubdistrict:
		if parentID == "" {
			return "", domain.ErrParentRequired
		}
		return fmt.Sprintf(constants.SubdistrictsPath, parentID), nil
	default:
		return "", domain.ErrInvalidLevel
	}
}

// FetchChildren реализует port.RegionProviderPort.
func (a *RegionFetcherAdapter) FetchChildren(ctx context.Context, level domain.RegionLevel, parentID string) ([]domain.Region, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	fetchLogger := logger.WithFields(port.Fields{
		"component":    "RegionFetcherAdapter",
		"region_level": level.String(),
		"parent_id":    parentID,
	})

	path, err := resourcePath(level, parentID)
	if err != nil {
		return nil, &domain.FetchError{Level: level, ParentID: parentID, Err: err}
	}
	targetURL := a.baseURL.JoinPath(path).String()

	if err := ctx.Err(); err != nil {
		return nil, &domain.FetchError{Level: level, ParentID: parentID, Err: err}
	}

	// "одноразовый" клон со своими обработчиками
	collector := a.collector.Clone()

	var regions []domain.Region
	var responseErr error

	collector.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", "application/json")
		if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
			r.Headers.Set("X-Trace-ID", traceID)
		}
		fetchLogger.Debug("Requesting region list", port.Fields{"url": r.URL.String()})
	})

	collector.OnResponse(func(r *colly.Response) {
		if err := contracts.Validate(contracts.RegionListV1, r.Body); err != nil {
			responseErr = fmt.Errorf("region list from %s rejected: %w", r.Request.URL, err)
			return
		}
		mapped, err := mapRegions(r.Body, level)
		if err != nil {
			responseErr = err
			return
		}
		regions = mapped
	})

	collector.OnError(func(r *colly.Response, err error) {
		fetchLogger.Error("Region list request failed", err, port.Fields{
			"url":    r.Request.URL.String(),
			"status": r.StatusCode,
		})
		responseErr = fmt.Errorf("request to %s failed with status %d: %w", r.Request.URL, r.StatusCode, err)
	})

	visitErr := collector.Visit(targetURL)
	collector.Wait()

	if responseErr != nil {
		return nil, &domain.FetchError{Level: level, ParentID: parentID, Err: responseErr}
	}
	if visitErr != nil {
		return nil, &domain.FetchError{Level: level, ParentID: parentID, Err: visitErr}
	}
	fetchLogger.Info("Region list fetched", port.Fields{"count": len(regions)})
	return regions, nil
}
