package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"algotex/internal/diag"
	"algotex/internal/pipeline"
	"algotex/internal/source"
	"algotex/internal/trace"
)

// ListPyFiles возвращает отсортированный список всех *.py файлов в директории.
// Скрытые каталоги и __pycache__ пропускаются.
func ListPyFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != dir && (strings.HasPrefix(name, ".") || name == "__pycache__") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, ".py") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// RenderDir renders every *.py file under dir in parallel. Results are
// ordered by path; one failing file does not stop the others.
func RenderDir(ctx context.Context, dir string, opts Options) (*source.FileSet, []*RenderResult, error) {
	files, err := ListPyFiles(dir)
	if err != nil {
		return nil, nil, err
	}
	return RenderFiles(ctx, dir, files, opts)
}

// RenderFiles renders the given files in parallel. baseDir only affects how
// paths are displayed.
func RenderFiles(ctx context.Context, baseDir string, files []string, opts Options) (*source.FileSet, []*RenderResult, error) {
	fileSet := source.NewFileSetWithBase(baseDir)
	if len(files) == 0 {
		return fileSet, nil, nil
	}

	span, ctx := trace.Child(ctx, trace.ScopeDriver, "render_dir")
	span.WithExtra("files", strconv.Itoa(len(files)))
	defer span.End("")

	// FileSet не потокобезопасен на запись: грузим всё заранее.
	fileIDs := make([]source.FileID, len(files))
	paths := make([]string, len(files))
	loadErrors := make(map[int]error)
	for i, path := range files {
		fileID, err := fileSet.Load(path)
		if err != nil {
			// пустой виртуальный файл, чтобы у диагностики был путь
			loadErrors[i] = err
			fileID = fileSet.AddVirtual(path, nil)
		}
		fileIDs[i] = fileID
		paths[i] = fileSet.Get(fileID).Path
	}

	pipeline.EmitQueued(opts.Progress, paths)

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	results := make([]*RenderResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range paths {
		g.Go(func() error {
			if loadErr, failed := loadErrors[i]; failed {
				bag := diag.NewBag(opts.maxDiagnostics())
				bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{File: fileIDs[i]}, "failed to load file: "+loadErr.Error()))
				results[i] = &RenderResult{Path: path, FileID: fileIDs[i], Bag: bag, Err: loadErr}
				pipeline.Emit(opts.Progress, pipeline.Event{File: path, Stage: pipeline.StageParse, Status: pipeline.StatusError, Err: loadErr})
				return nil
			}
			results[i] = renderLoaded(gctx, fileSet, fileSet.Get(fileIDs[i]), &opts)
			// Ошибки файлов живут в результатах; группу валит только отмена.
			return gctx.Err()
		})
	}

	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}
	return fileSet, results, nil
}
