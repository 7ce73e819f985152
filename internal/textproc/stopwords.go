package textproc

import (
	"bufio"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"newslens/internal/logger"
)

// englishStopwords is the standard english stopword list, embedded so
// preprocessing works with no external resources at all.
var englishStopwords = []string{
	"i", "me", "my", "myself", "we", "our", "ours", "ourselves", "you",
	"your", "yours", "yourself", "yourselves", "he", "him", "his", "himself",
	"she", "her", "hers", "herself", "it", "its", "itself", "they", "them",
	"their", "theirs", "themselves", "what", "which", "who", "whom", "this",
	"that", "these", "those", "am", "is", "are", "was", "were", "be", "been",
	"being", "have", "has", "had", "having", "do", "does", "did", "doing",
	"a", "an", "the", "and", "but", "if", "or", "because", "as", "until",
	"while", "of", "at", "by", "for", "with", "about", "against", "between",
	"into", "through", "during", "before", "after", "above", "below", "to",
	"from", "up", "down", "in", "out", "on", "off", "over", "under", "again",
	"further", "then", "once", "here", "there", "when", "where", "why", "how",
	"all", "any", "both", "each", "few", "more", "most", "other", "some",
	"such", "no", "nor", "not", "only", "own", "same", "so", "than", "too",
	"very", "can", "will", "just", "don", "should", "now", "ain", "aren",
	"couldn", "didn", "doesn", "hadn", "hasn", "haven", "isn", "mightn",
	"mustn", "needn", "shan", "shouldn", "wasn", "weren", "won", "wouldn",
}

// customStopwords are terms so common in news copy that they carry no signal.
var customStopwords = []string{
	"news", "report", "says", "new", "update", "live", "said", "us", "could", "would",
}

var (
	resourceOnce sync.Once
	stopwordSet  map[string]struct{}
)

// stopwords builds the combined set on first use. If a resource path is
// configured via EnsureResources, words from that file extend the embedded list.
func stopwords() map[string]struct{} {
	resourceOnce.Do(func() {
		stopwordSet = make(map[string]struct{}, len(englishStopwords)+len(customStopwords))
		for _, w := range englishStopwords {
			stopwordSet[w] = struct{}{}
		}
		for _, w := range customStopwords {
			stopwordSet[w] = struct{}{}
		}
		if resourcePath != "" {
			if err := loadStopwordsFile(resourcePath); err != nil {
				logger.Warn("stopwords file not loaded, using embedded list", "path", resourcePath, "error", err)
			}
		}
	})
	return stopwordSet
}

var (
	resourceMu   sync.Mutex
	resourcePath string
)

// EnsureResources makes an extended stopword list available at path. The
// download runs at most once, is skipped when the file already exists, and is
// never required: the embedded list covers the default setup. Must be called
// before the first Preprocess to take effect.
func EnsureResources(path, url string) error {
	resourceMu.Lock()
	defer resourceMu.Unlock()

	if path == "" {
		return nil
	}
	resourcePath = path

	if _, err := os.Stat(path); err == nil {
		return nil // already present, nothing to download
	}
	if url == "" {
		return nil
	}

	logger.Info("downloading stopword resources", "url", url, "path", path)
	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Warn("failed to close response body", "error", err)
		}
	}()
	if resp.StatusCode != http.StatusOK {
		return &os.PathError{Op: "download", Path: url, Err: os.ErrInvalid}
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

// loadStopwordsFile reads one word per line into the set. Caller runs inside
// the resourceOnce body, so no extra locking is needed.
func loadStopwordsFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		w := strings.TrimSpace(strings.ToLower(scanner.Text()))
		if w != "" {
			stopwordSet[w] = struct{}{}
		}
	}
	return scanner.Err()
}

// IsStopword reports whether the token is filtered during preprocessing.
func IsStopword(token string) bool {
	_, ok := stopwords()[strings.ToLower(token)]
	return ok
}
