package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/yhassan-git-real/DBExportHub/contracts/storage"
)

type LocalConfig struct {
	Endpoint string `help:"访问地址" default:"http://localhost" json:"endpoint"`
	Root     string `help:"根目录" default:"$ROOT" json:"root"`
}

var _ storage.FileStorage = (*Local)(nil)

// Local 本地磁盘存储
type Local struct {
	root     string
	endpoint string
}

func NewLocal(config LocalConfig) (*Local, error) {
	return &Local{
		root:     config.Root,
		endpoint: strings.TrimSuffix(config.Endpoint, "/"),
	}, nil
}

func (r *Local) PutStream(ctx context.Context, file string, rs io.Reader) error {
	file = r.fullPath(file)
	if err := os.MkdirAll(filepath.Dir(file), os.ModePerm); err != nil {
		return err
	}
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()
	if _, err = io.Copy(f, rs); err != nil {
		return err
	}
	return nil
}

func (r *Local) GetStream(ctx context.Context, file string) (io.ReadCloser, error) {
	return os.Open(r.fullPath(file))
}

func (r *Local) Exists(ctx context.Context, file string) bool {
	_, err := os.Stat(r.fullPath(file))
	if err != nil {
		return os.IsExist(err)
	}
	return true
}

func (r *Local) Delete(ctx context.Context, files ...string) error {
	for _, file := range files {
		if err := os.Remove(r.fullPath(file)); err != nil {
			return err
		}
	}
	return nil
}

func (r *Local) Size(ctx context.Context, file string) (int64, error) {
	fi, err := os.Stat(r.fullPath(file))
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}

func (r *Local) Path(file string) string {
	return r.fullPath(file)
}

func (r *Local) Url(file string) string {
	return r.endpoint + "/" + strings.TrimPrefix(filepath.ToSlash(file), "/")
}

func (r *Local) fullPath(path string) string {
	realPath := filepath.Clean(path)
	if realPath == "." {
		return r.root
	}
	return filepath.Join(r.root, realPath)
}
