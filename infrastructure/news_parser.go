package infrastructure

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/Vaflel/spo-schedule/domain"
)

const defaultNewsURL = "https://spo-13.mskobr.ru/"

// NewsParser загружает главную страницу колледжа и извлекает новости.
// Если задан proxyURL, страница запрашивается через сервис отрисовки:
// proxyURL?url=<страница>, который возвращает HTML после выполнения скриптов.
type NewsParser struct {
	pageURL  string
	proxyURL string
	client   *http.Client
}

// NewNewsParser создаёт новый экземпляр парсера
func NewNewsParser(pageURL, proxyURL string, timeout time.Duration) *NewsParser {
	if pageURL == "" {
		pageURL = defaultNewsURL
	}
	jar, _ := cookiejar.New(nil)
	return &NewsParser{
		pageURL:  pageURL,
		proxyURL: proxyURL,
		client:   &http.Client{Jar: jar, Timeout: timeout},
	}
}

func (p *NewsParser) createRequest(ctx context.Context, method, target string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:137.0) Gecko/20100101 Firefox/137.0")
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("Accept-Language", "ru-RU,ru;q=0.8,en-US;q=0.5,en;q=0.3")
	req.Header.Set("Connection", "keep-alive")

	return req, nil
}

func (p *NewsParser) requestURL() (string, error) {
	if p.proxyURL == "" {
		return p.pageURL, nil
	}

	u, err := url.Parse(p.proxyURL)
	if err != nil {
		return "", fmt.Errorf("некорректный адрес прокси: %w", err)
	}
	q := u.Query()
	q.Set("url", p.pageURL)
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// Fetch загружает страницу и возвращает новости в порядке следования на странице
func (p *NewsParser) Fetch(ctx context.Context) ([]domain.NewsItem, error) {
	target, err := p.requestURL()
	if err != nil {
		return nil, err
	}

	req, err := p.createRequest(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("страница новостей вернула статус %d", resp.StatusCode)
	}

	return ParseNews(resp.Body, p.pageURL)
}

// ParseNews извлекает новости из HTML. Новость без заголовка или даты пропускается,
// относительные адреса картинок дополняются адресом страницы.
func ParseNews(r io.Reader, pageURL string) ([]domain.NewsItem, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("не удалось разобрать HTML: %w", err)
	}

	base, _ := url.Parse(pageURL)

	news := []domain.NewsItem{}
	doc.Find(".news-item").Each(func(i int, s *goquery.Selection) {
		title := collapse(s.Find(".news-title").Text())
		date := collapse(s.Find(".news-date").Text())
		if title == "" || date == "" {
			return
		}

		image, _ := s.Find("img").First().Attr("src")

		news = append(news, domain.NewsItem{
			Title:       title,
			Date:        date,
			Image:       resolveURL(base, strings.TrimSpace(image)),
			Description: collapse(s.Find(".news-description").Text()),
		})
	})

	return news, nil
}

func resolveURL(base *url.URL, ref string) string {
	if ref == "" || strings.HasPrefix(ref, "http") || base == nil {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
