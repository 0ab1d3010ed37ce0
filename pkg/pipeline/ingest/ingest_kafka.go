/*
 * Copyright (C) 2024 IBM, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 */

package ingest

import (
	"context"
	"errors"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/netobserv/treedistance/pkg/api"
	"github.com/netobserv/treedistance/pkg/config"
	"github.com/netobserv/treedistance/pkg/event"
	"github.com/netobserv/treedistance/pkg/pipeline/utils"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

var klog = logrus.WithField("component", "ingest.Kafka")

const (
	defaultCommitInterval    = 500 * time.Millisecond
	defaultPullQueueCapacity = 100
)

type kafkaReadMessage interface {
	ReadMessage(ctx context.Context) (kafkago.Message, error)
	Config() kafkago.ReaderConfig
}

// ingestKafka reads one stream per message: the key names the stream and the value holds
// the JSON array of its process records.
type ingestKafka struct {
	kafkaParams api.IngestKafka
	kafkaReader kafkaReadMessage
	filter      *filter
	in          chan *event.Stream
	exitChan    <-chan struct{}
}

// Ingest ingests streams from kafka topic and sends them down the pipeline
func (k *ingestKafka) Ingest(out chan<- *event.Stream) {
	klog.Debugf("entering ingestKafka.Ingest")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go k.kafkaListener(ctx)

	for {
		select {
		case <-k.exitChan:
			klog.Debugf("exiting ingestKafka because of signal")
			cancel()
			return
		case stream := <-k.in:
			out <- stream
			streamsIngested.WithLabelValues(api.KafkaType).Inc()
		}
	}
}

// kafkaListener pulls messages from the topic and queues the decoded streams
func (k *ingestKafka) kafkaListener(ctx context.Context) {
	klog.Debugf("entering kafkaListener")
	for {
		m, err := k.kafkaReader.ReadMessage(ctx)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			klog.Errorln(err)
			recordErrors.WithLabelValues(api.KafkaType, "read").Inc()
			continue
		}
		klog.Debugf("message at topic:%v partition:%v offset:%v key:%s", m.Topic, m.Partition, m.Offset, string(m.Key))
		stream, err := k.decode(m)
		if err != nil {
			klog.Errorf("skipping message %s: %v", string(m.Key), err)
			recordErrors.WithLabelValues(api.KafkaType, "decode").Inc()
			continue
		}
		select {
		case <-ctx.Done():
			return
		case k.in <- stream:
		}
	}
}

func (k *ingestKafka) decode(m kafkago.Message) (*event.Stream, error) {
	var rows []map[string]interface{}
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(m.Value, &rows); err != nil {
		return nil, err
	}
	name := string(m.Key)
	if name == "" {
		name = m.Topic
	}
	it := newRecordIterator(&sliceSource{rows: rows}, k.filter, StreamOptions, api.KafkaType)
	return &event.Stream{Name: name, Iterator: it}, nil
}

// NewIngestKafka create a new ingester
func NewIngestKafka(params config.StageParam) (Ingester, error) {
	klog.Debugf("entering NewIngestKafka")
	if params.Ingest == nil || params.Ingest.Kafka == nil {
		return nil, errors.New("missing kafka ingest parameters")
	}
	jsonIngestKafka := *params.Ingest.Kafka
	if len(jsonIngestKafka.Brokers) == 0 || jsonIngestKafka.Topic == "" {
		return nil, errors.New("kafka ingest needs brokers and a topic")
	}

	f, err := newFilter(jsonIngestKafka.Filter)
	if err != nil {
		return nil, err
	}

	var startOffset int64
	switch jsonIngestKafka.StartOffset {
	case "", "FirstOffset":
		startOffset = kafkago.FirstOffset
	case "LastOffset":
		startOffset = kafkago.LastOffset
	default:
		klog.Warningf("unknown startOffset %s, using FirstOffset", jsonIngestKafka.StartOffset)
		startOffset = kafkago.FirstOffset
	}

	commitInterval := defaultCommitInterval
	if jsonIngestKafka.CommitInterval.Duration > 0 {
		commitInterval = jsonIngestKafka.CommitInterval.Duration
	}
	capacity := defaultPullQueueCapacity
	if jsonIngestKafka.PullQueueCapacity > 0 {
		capacity = jsonIngestKafka.PullQueueCapacity
	}

	kafkaReader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        jsonIngestKafka.Brokers,
		Topic:          jsonIngestKafka.Topic,
		GroupID:        jsonIngestKafka.GroupID,
		StartOffset:    startOffset,
		CommitInterval: commitInterval,
	})
	if kafkaReader == nil {
		errMsg := "NewIngestKafka: failed to create kafka-go reader"
		klog.Errorf("%s", errMsg)
		return nil, errors.New(errMsg)
	}
	klog.Debugf("kafkaReader = %v", kafkaReader)

	ch := make(chan struct{})
	utils.RegisterExitChannel(ch)
	return &ingestKafka{
		kafkaParams: jsonIngestKafka,
		kafkaReader: kafkaReader,
		filter:      f,
		in:          make(chan *event.Stream, capacity),
		exitChan:    ch,
	}, nil
}
