package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/gabriel-vasile/mimetype"

	"github.com/yhassan-git-real/DBExportHub/contracts/storage"
)

type S3Config struct {
	AccessKeyId     string `help:"accessKeyId" default:""`
	AccessKeySecret string `help:"accessKeySecret" default:""`
	Bucket          string `help:"存储桶" default:""`
	Region          string `help:"地区" default:""`
	Url             string `help:"访问地址" default:""`
	Endpoint        string `help:"api入口" default:""`
}

var _ storage.FileStorage = (*S3)(nil)

// S3 对象存储，兼容aws s3及r2等s3协议服务
type S3 struct {
	config   S3Config
	instance *s3.Client
}

func NewS3(config S3Config) (*S3, error) {
	if config.AccessKeyId == "" || config.AccessKeySecret == "" || config.Endpoint == "" {
		return nil, errors.New("please set configuration")
	}

	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL: config.Endpoint,
		}, nil
	})
	cfg, _ := awsConfig.LoadDefaultConfig(context.TODO(),
		awsConfig.WithEndpointResolverWithOptions(resolver),
		awsConfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(config.AccessKeyId, config.AccessKeySecret, "")),
		awsConfig.WithRegion(config.Region),
	)

	if config.Url == "" {
		config.Url = config.Endpoint
	}
	config.Url = strings.TrimSuffix(config.Url, "/")

	return &S3{
		config:   config,
		instance: s3.NewFromConfig(cfg),
	}, nil
}

func (r *S3) PutStream(ctx context.Context, file string, rs io.Reader) error {
	file = r.Path(file)
	//只读取探测mime需要的头部，大文件保持流式上传
	header := make([]byte, 3072)
	n, err := io.ReadFull(rs, header)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return err
	}
	mtype := mimetype.Detect(header[:n])
	body := io.MultiReader(bytes.NewReader(header[:n]), rs)
	_, err = r.instance.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.config.Bucket),
		Key:         aws.String(file),
		Body:        body,
		ContentType: aws.String(mtype.String()),
	})
	return err
}

func (r *S3) GetStream(ctx context.Context, file string) (io.ReadCloser, error) {
	resp, err := r.instance.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.config.Bucket),
		Key:    aws.String(r.Path(file)),
	})
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

func (r *S3) Exists(ctx context.Context, file string) bool {
	_, err := r.instance.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(r.config.Bucket),
		Key:    aws.String(r.Path(file)),
	})
	return err == nil
}

func (r *S3) Delete(ctx context.Context, files ...string) error {
	var objectIdentifiers []types.ObjectIdentifier
	for _, file := range files {
		objectIdentifiers = append(objectIdentifiers, types.ObjectIdentifier{
			Key: aws.String(r.Path(file)),
		})
	}
	_, err := r.instance.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(r.config.Bucket),
		Delete: &types.Delete{
			Objects: objectIdentifiers,
			Quiet:   aws.Bool(true),
		},
	})
	return err
}

func (r *S3) Size(ctx context.Context, file string) (int64, error) {
	resp, err := r.instance.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(r.config.Bucket),
		Key:    aws.String(r.Path(file)),
	})
	if err != nil {
		return 0, err
	}
	return *resp.ContentLength, nil
}

func (r *S3) Path(file string) string {
	return strings.TrimPrefix(file, "/")
}

func (r *S3) Url(file string) string {
	return r.config.Url + "/" + strings.TrimPrefix(file, "/")
}
