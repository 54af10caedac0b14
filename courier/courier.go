package courier

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/lunsanna/wav2vec2-finetune/db"
	log "github.com/lunsanna/wav2vec2-finetune/logger"
)

// Courier collects the artifacts of one fine-tuning run (request yaml,
// log, database, report, checkpoint archive) and delivers them to the
// results bucket under <username>/<dataset>/<run>/.
type Courier struct {
	ctx         context.Context
	IsUnitTest  bool // Set to true by bucket tests.
	start       time.Time
	bucket      string
	username    string
	dataset     string
	run         int
	yamlContent string
	logFile     string
	databases   []string
	outputs     []string
}

func NewCourier(ctx context.Context, yaml []byte, username string, dataset string) Courier {
	var b Courier
	b.ctx = ctx
	b.start = time.Now()
	b.bucket = os.Getenv(`W2V2_RESULTS_BUCKET`)
	b.yamlContent = string(yaml)
	b.username = username
	b.dataset = dataset
	logDir := os.Getenv(`W2V2_LOG_DIR`)
	if logDir != `` {
		b.AddPerJobLogFile(logDir)
	}
	return b
}

// AddPerJobLogFile creates a new log file for this run and points the
// logger at it.
func (b *Courier) AddPerJobLogFile(logDir string) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Warn(b.ctx, `Failed to create log directory:`, err)
		return
	}
	timestamp := time.Now().Format(`20060102_150405`)
	b.logFile = filepath.Join(logDir, fmt.Sprintf(`%s-%s-%s.log`,
		timestamp, b.username, b.dataset))
	log.SetOutput(b.logFile)
}

func (b *Courier) AddDatabase(conn db.DBAdapter) {
	b.databases = append(b.databases, conn.DatabasePath)
}

func (b *Courier) AddOutput(outputPath string) {
	if len(outputPath) > 0 {
		b.outputs = append(b.outputs, outputPath)
	}
}

func (b *Courier) GetOutputPaths() []string {
	return b.outputs
}

func (b *Courier) LogFile() string {
	return b.logFile
}

// PersistToBucket uploads everything collected so far. The run number is
// one past the highest already in the bucket for this dataset.
func (b *Courier) PersistToBucket() *log.Status {
	var allStatus []*log.Status
	var status *log.Status
	if !testing.Testing() || b.IsUnitTest {
		cfg, err := config.LoadDefaultConfig(b.ctx, config.WithRegion(`eu-north-1`))
		if err != nil {
			return log.Error(b.ctx, 500, err, `Error loading AWS config.`)
		}
		client := s3.NewFromConfig(cfg)
		b.run, status = b.findLastRun(client)
		allStatus = append(allStatus, status)
		b.run++
		_, status = b.uploadString(client, `request`, b.dataset+`.yaml`, b.yamlContent)
		allStatus = append(allStatus, status)
		if b.logFile != `` {
			_, status = b.uploadFile(client, `log`, b.logFile)
			allStatus = append(allStatus, status)
		}
		for _, database := range b.databases {
			_, status = b.uploadFile(client, `database`, database)
			allStatus = append(allStatus, status)
		}
		for _, output := range b.outputs {
			_, status = b.uploadFile(client, `output`, output)
			allStatus = append(allStatus, status)
		}
		_, status = b.uploadString(client, `duration`, time.Since(b.start).String(), ``)
		allStatus = append(allStatus, status)
		for _, stat := range allStatus {
			if stat != nil {
				status = stat
				break
			}
		}
	}
	return status
}

func (b *Courier) findLastRun(client *s3.Client) (int, *log.Status) {
	var result int
	prefix := b.username + `/` + b.dataset + `/`
	output, err := client.ListObjectsV2(b.ctx, &s3.ListObjectsV2Input{
		Bucket: &b.bucket,
		Prefix: &prefix,
	})
	if err != nil {
		return result, log.Error(b.ctx, 500, err, `Error listing bucket objects.`)
	}
	maxRun := 0
	for _, obj := range output.Contents {
		parts := strings.Split(*obj.Key, `/`)
		if len(parts) < 4 {
			continue
		}
		runNum, err := strconv.Atoi(parts[2])
		if err != nil {
			continue
		}
		if runNum > maxRun {
			maxRun = runNum
		}
	}
	return maxRun, nil
}

func (b *Courier) uploadString(client *s3.Client, typ string, filename string, content string) (string, *log.Status) {
	var status *log.Status
	objectKey := b.createKey(typ, filename)
	_, err := client.PutObject(b.ctx, &s3.PutObjectInput{
		Bucket: &b.bucket,
		Key:    &objectKey,
		Body:   strings.NewReader(content),
	})
	if err != nil {
		status = log.Error(b.ctx, 500, err, `Error uploading string content.`)
	}
	return objectKey, status
}

func (b *Courier) uploadFile(client *s3.Client, typ string, filePath string) (string, *log.Status) {
	var objectKey string
	var status *log.Status
	file, err := os.Open(filePath)
	if err != nil {
		log.Warn(b.ctx, err, `Error opening file to upload to S3.`)
		return objectKey, status
	}
	defer file.Close()
	objectKey = b.createKey(typ, filePath)
	_, err = client.PutObject(b.ctx, &s3.PutObjectInput{
		Bucket: &b.bucket,
		Key:    &objectKey,
		Body:   file,
	})
	if err != nil {
		status = log.Error(b.ctx, 500, err, `Error uploading file to S3.`)
	}
	return objectKey, status
}

func (b *Courier) createKey(typ string, filename string) string {
	runStr := fmt.Sprintf(`%05d`, b.run)
	filename = filepath.Base(filename)
	return b.username + `/` + b.dataset + `/` + runStr + `/` + typ + `/` + filename
}
