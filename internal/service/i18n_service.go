package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"i18n_portal/internal/cache"
	"i18n_portal/internal/logger"
	"i18n_portal/internal/models"
	"i18n_portal/internal/repository"

	"golang.org/x/text/language"
)

var (
	ErrInvalidLocale  = errors.New("invalid locale")
	ErrLocaleNotFound = errors.New("locale not found")
	ErrNoMessages     = errors.New("no messages given")
)

// I18nService resolves bundles with fallback along the locale's parent
// chain (es-MX → es-419 → es) and finally the default locale.
type I18nService struct {
	repo          repository.TranslationRepo
	auditRepo     repository.AuditRepo
	cache         cache.BundleCache
	log           *logger.Logger
	defaultLocale string
}

func NewI18nService(repo repository.TranslationRepo, audit repository.AuditRepo, bundles cache.BundleCache, log *logger.Logger, defaultLocale string) *I18nService {
	if bundles == nil {
		bundles = cache.NewMemory()
	}
	if log == nil {
		log = logger.NewNop()
	}
	def, err := CanonicalLocale(defaultLocale)
	if err != nil {
		def = strings.TrimSpace(defaultLocale)
	}
	return &I18nService{repo: repo, auditRepo: audit, cache: bundles, log: log, defaultLocale: def}
}

// CanonicalLocale parses a BCP 47 tag and returns its canonical form.
func CanonicalLocale(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrInvalidLocale
	}
	tag, err := language.Parse(s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidLocale, s)
	}
	return tag.String(), nil
}

func (s *I18nService) Locales(ctx context.Context) ([]string, error) {
	return s.repo.Locales(ctx)
}

func (s *I18nService) Bundle(ctx context.Context, locale string) (models.Bundle, error) {
	locale, err := CanonicalLocale(locale)
	if err != nil {
		return models.Bundle{}, err
	}

	if msgs, ok, err := s.cache.Get(ctx, locale); err != nil {
		s.log.Warnw("bundle_cache_get_failed", "locale", locale, "err", err)
	} else if ok {
		return models.Bundle{Locale: locale, Messages: msgs}, nil
	}
	// taken before any row is read; an Invalidate after this point makes
	// the Set below a no-op
	gen, genErr := s.cache.Generation(ctx)
	if genErr != nil {
		s.log.Warnw("bundle_cache_generation_failed", "locale", locale, "err", genErr)
	}

	merged := make(map[string]string)
	// lowest priority first so more specific locales overwrite
	chain := s.fallbackChain(locale)
	for i := len(chain) - 1; i >= 0; i-- {
		msgs, err := s.repo.Messages(ctx, chain[i])
		if err != nil {
			return models.Bundle{}, err
		}
		for k, v := range msgs {
			merged[k] = v
		}
	}
	if len(merged) == 0 {
		return models.Bundle{}, fmt.Errorf("%w: %s", ErrLocaleNotFound, locale)
	}

	if genErr == nil {
		if stored, err := s.cache.Set(ctx, gen, locale, merged); err != nil {
			s.log.Warnw("bundle_cache_set_failed", "locale", locale, "err", err)
		} else if !stored {
			s.log.Debugw("bundle_cache_set_skipped", "locale", locale, "generation", gen)
		}
	}
	return models.Bundle{Locale: locale, Messages: merged}, nil
}

// fallbackChain lists locale, its parents and the default locale, most
// specific first and without duplicates.
func (s *I18nService) fallbackChain(locale string) []string {
	chain := []string{locale}
	seen := map[string]bool{locale: true}
	if tag, err := language.Parse(locale); err == nil {
		for p := tag.Parent(); !p.IsRoot(); p = p.Parent() {
			if name := p.String(); !seen[name] {
				seen[name] = true
				chain = append(chain, name)
			}
		}
	}
	if !seen[s.defaultLocale] {
		chain = append(chain, s.defaultLocale)
	}
	return chain
}

// Negotiate picks the best available locale for an Accept-Language header,
// falling back to the default locale.
func (s *I18nService) Negotiate(ctx context.Context, acceptLanguage string) (string, error) {
	available, err := s.repo.Locales(ctx)
	if err != nil {
		return "", err
	}

	names := []string{s.defaultLocale}
	tags := []language.Tag{language.Make(s.defaultLocale)}
	for _, l := range available {
		if l == s.defaultLocale {
			continue
		}
		tag, err := language.Parse(l)
		if err != nil {
			continue
		}
		names = append(names, l)
		tags = append(tags, tag)
	}

	desired, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(desired) == 0 {
		return s.defaultLocale, nil
	}
	_, idx, conf := language.NewMatcher(tags).Match(desired...)
	if conf == language.No {
		return s.defaultLocale, nil
	}
	return names[idx], nil
}

// Update upserts messages for a locale and returns the resolved bundle.
func (s *I18nService) Update(ctx context.Context, actor, locale string, messages map[string]string) (models.Bundle, error) {
	locale, err := CanonicalLocale(locale)
	if err != nil {
		return models.Bundle{}, err
	}
	if len(messages) == 0 {
		return models.Bundle{}, ErrNoMessages
	}
	clean := make(map[string]string, len(messages))
	for k, v := range messages {
		k = strings.TrimSpace(k)
		if k == "" {
			return models.Bundle{}, fmt.Errorf("%w: empty message key", ErrNoMessages)
		}
		clean[k] = v
	}

	if err := s.repo.Upsert(ctx, locale, clean); err != nil {
		return models.Bundle{}, err
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warnw("bundle_cache_invalidate_failed", "err", err)
	}

	recordAudit(ctx, s.auditRepo, s.log, models.AuditEvent{
		Type:        models.AuditTranslationsUpdate,
		Actor:       actor,
		Description: fmt.Sprintf("updated %d messages for %s", len(clean), locale),
		Metadata:    map[string]any{"locale": locale, "count": len(clean)},
	})
	return s.Bundle(ctx, locale)
}
