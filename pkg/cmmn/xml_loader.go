package cmmn

import (
	"bytes"
	"compress/flate"
	"context"
	"crypto/md5"
	"encoding/ascii85"
	"encoding/hex"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pbinitiative/zencmmn/pkg/cmmn/exporter"
	"github.com/pbinitiative/zencmmn/pkg/cmmn/model/cmmn11"
	"github.com/pbinitiative/zencmmn/pkg/cmmn/runtime"
	otelPkg "github.com/pbinitiative/zencmmn/pkg/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// LoadFromFile loads a given CMMN file by filename into the engine
// and returns the deployed definitions of every case in the file
func (engine *Engine) LoadFromFile(ctx context.Context, filename string) ([]runtime.DeployedCaseDefinition, error) {
	xmlData, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to load from file: %w", err)
	}
	return engine.load(ctx, xmlData, filepath.Base(filename))
}

// LoadFromBytes loads a given CMMN document by xmlData byte array into the engine
// and returns the deployed definitions of every case in the document
func (engine *Engine) LoadFromBytes(ctx context.Context, xmlData []byte, resourceName string) ([]runtime.DeployedCaseDefinition, error) {
	definitions, err := engine.load(ctx, xmlData, resourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to load from bytes: %w", err)
	}
	return definitions, nil
}

func (engine *Engine) load(ctx context.Context, xmlData []byte, resourceName string) (result []runtime.DeployedCaseDefinition, retErr error) {
	ctx, span := engine.tracer.Start(ctx, fmt.Sprintf("deploy:%s", resourceName), trace.WithAttributes(
		attribute.String(otelPkg.AttributeResourceName, resourceName),
	))
	defer func() {
		if retErr != nil {
			span.RecordError(retErr)
			span.SetStatus(codes.Error, retErr.Error())
		}
		span.End()
	}()

	md5sum := md5.Sum(xmlData)
	start := time.Now()
	caseDefinitions, err := engine.compile(ctx, xmlData)
	engine.metrics.CompileDuration.Record(ctx, float64(time.Since(start).Milliseconds()))
	if err != nil {
		engine.metrics.CompileFailures.Add(ctx, 1)
		return nil, err
	}

	engine.deployMu.Lock()
	defer engine.deployMu.Unlock()

	data := compressAndEncode(xmlData)
	checksum := hex.EncodeToString(md5sum[:])
	result = make([]runtime.DeployedCaseDefinition, 0, len(caseDefinitions))
	for _, caseDefinition := range caseDefinitions {
		deployed := runtime.DeployedCaseDefinition{
			Version:      1,
			CaseId:       caseDefinition.Id,
			ResourceName: resourceName,
			Checksum:     md5sum,
			Data:         data,
			Definition:   caseDefinition,
		}
		existing, err := engine.persistence.FindCaseDefinitionsById(ctx, caseDefinition.Id)
		if err != nil {
			return nil, fmt.Errorf("failed to load case definitions by id %s: %w", caseDefinition.Id, err)
		}
		if len(existing) > 0 {
			latest := existing[len(existing)-1]
			if latest.Checksum == md5sum {
				latest, err = engine.withDefinition(ctx, latest)
				if err != nil {
					return nil, err
				}
				engine.metrics.DefinitionsUnchanged.Add(ctx, 1)
				engine.exportCaseDefinitionEvent(latest, xmlData, checksum, exporter.Unchanged)
				result = append(result, latest)
				continue
			}
			deployed.Version = latest.Version + 1
		}
		deployed.Key = engine.generateKey()
		if err := engine.persistence.SaveCaseDefinition(ctx, deployed); err != nil {
			return nil, fmt.Errorf("failed to save case definition: %w", err)
		}
		engine.cache.Add(deployed.Key, deployed.Definition)
		engine.metrics.DefinitionsDeployed.Add(ctx, 1)
		engine.exportCaseDefinitionEvent(deployed, xmlData, checksum, exporter.Deployed)
		span.SetAttributes(attribute.Int64(otelPkg.AttributeCaseDefinitionKey, deployed.Key))
		engine.logger.Info(fmt.Sprintf("deployed case %s version %d with key %d", deployed.CaseId, deployed.Version, deployed.Key))
		result = append(result, deployed)
	}
	return result, nil
}

func (engine *Engine) compile(ctx context.Context, xmlData []byte) ([]*runtime.CaseDefinition, error) {
	var definitions cmmn11.TDefinitions
	err := xml.Unmarshal(xmlData, &definitions)
	if err != nil {
		return nil, &UnmarshallingError{Msg: "failed to unmarshal xml data", Err: err}
	}
	if len(definitions.Cases) == 0 {
		return nil, newEngineErrorf("document %s contains no case", definitions.Id)
	}
	cases, err := engine.compiler.Compile(ctx, &definitions)
	if err != nil {
		return nil, errors.Join(newEngineErrorf("failed to compile document %s", definitions.Id), err)
	}
	return cases, nil
}

// compressAndEncode deflates the data and encodes it with ascii85, so the
// result only contains printable characters
func compressAndEncode(data []byte) string {
	buffer := bytes.Buffer{}
	ascii85Writer := ascii85.NewEncoder(&buffer)
	flateWriter, err := flate.NewWriter(ascii85Writer, flate.BestCompression)
	if err != nil {
		// only returned for an invalid compression level
		panic(err)
	}
	_, _ = flateWriter.Write(data)
	_ = flateWriter.Close()
	_ = ascii85Writer.Close()
	return buffer.String()
}

func decodeAndDecompress(data string) ([]byte, error) {
	ascii85Reader := ascii85.NewDecoder(bytes.NewBufferString(data))
	deflateReader := flate.NewReader(ascii85Reader)
	defer deflateReader.Close()
	buffer := bytes.Buffer{}
	_, err := io.Copy(&buffer, deflateReader)
	if err != nil {
		return nil, &UnmarshallingError{Msg: "failed to decode and decompress data", Err: err}
	}
	return buffer.Bytes(), nil
}
